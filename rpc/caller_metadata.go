package rpc

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"time"
)

const deadlineSkewSeconds int64 = 5

// defaultCallerMetadataMaxTTL bounds how long a signed request stays valid.
const defaultCallerMetadataMaxTTL = 10 * time.Minute

// callerMetadataParams carries the anti-replay metadata every signed mutating
// call must include. The nonce is strictly increasing per recovered caller and
// the request expires at expiresAt (or now+ttl), so an observed request cannot
// be re-submitted verbatim and cannot be held back indefinitely.
type callerMetadataParams struct {
	Nonce     *uint64 `json:"nonce,omitempty"`
	ExpiresAt *int64  `json:"expiresAt,omitempty"`
	TTL       *int64  `json:"ttl,omitempty"`
}

// signingFields returns the metadata in canonical payload order: nonce,
// expiresAt, ttl, with absent values as empty strings. They are appended to
// the method arguments before signing, so tampering with the metadata breaks
// signature recovery the same way tampering with an argument does.
func (p callerMetadataParams) signingFields() []string {
	fields := []string{"", "", ""}
	if p.Nonce != nil {
		fields[0] = strconv.FormatUint(*p.Nonce, 10)
	}
	if p.ExpiresAt != nil {
		fields[1] = strconv.FormatInt(*p.ExpiresAt, 10)
	}
	if p.TTL != nil {
		fields[2] = strconv.FormatInt(*p.TTL, 10)
	}
	return fields
}

type callerNonceState struct {
	nonce   uint64
	expires time.Time
}

func callerKeyFromAddress(addr [20]byte) string {
	return hex.EncodeToString(addr[:])
}

func (s *Server) validateCallerMetadata(actorKey string, params callerMetadataParams) error {
	now := time.Now()
	expiry, err := parseMetadataExpiry(now, params.ExpiresAt, params.TTL, s.callerMetadataMaxTTL)
	if err != nil {
		return err
	}
	if params.Nonce == nil {
		return fmt.Errorf("nonce required")
	}
	if *params.Nonce == 0 {
		return fmt.Errorf("nonce must be greater than zero")
	}
	if expiry.IsZero() {
		return fmt.Errorf("expiresAt or ttl required")
	}
	return s.trackCallerNonce(actorKey, *params.Nonce, expiry, now)
}

func parseMetadataExpiry(now time.Time, expiresAt, ttl *int64, maxTTL time.Duration) (time.Time, error) {
	if expiresAt != nil && ttl != nil {
		return time.Time{}, fmt.Errorf("provide at most one of expiresAt or ttl")
	}
	var expiry time.Time
	if expiresAt != nil {
		if *expiresAt <= 0 {
			return time.Time{}, fmt.Errorf("expiresAt must be positive")
		}
		expiry = time.Unix(*expiresAt, 0)
	} else if ttl != nil {
		if *ttl <= 0 {
			return time.Time{}, fmt.Errorf("ttl must be positive seconds")
		}
		if *ttl > int64(math.MaxInt64/int64(time.Second)) {
			return time.Time{}, fmt.Errorf("ttl exceeds supported range")
		}
		duration := time.Duration(*ttl) * time.Second
		if maxTTL > 0 && duration > maxTTL {
			return time.Time{}, fmt.Errorf("ttl exceeds maximum of %d seconds", int64(maxTTL/time.Second))
		}
		expiry = now.Add(duration)
	}
	if !expiry.IsZero() {
		if maxTTL > 0 {
			limit := now.Add(maxTTL)
			if expiry.After(limit) {
				return time.Time{}, fmt.Errorf("expiry exceeds maximum ttl of %s", maxTTL)
			}
		}
		skew := time.Duration(deadlineSkewSeconds) * time.Second
		if expiry.Before(now.Add(-skew)) {
			return time.Time{}, fmt.Errorf("expiry must be in the future")
		}
	}
	return expiry, nil
}

func (s *Server) trackCallerNonce(actorKey string, nonce uint64, expiry, now time.Time) error {
	s.callerNonceMu.Lock()
	defer s.callerNonceMu.Unlock()
	if s.callerNonces == nil {
		s.callerNonces = make(map[string]callerNonceState)
	}
	if state, ok := s.callerNonces[actorKey]; ok {
		if now.After(state.expires) {
			delete(s.callerNonces, actorKey)
		} else if nonce <= state.nonce {
			return fmt.Errorf("nonce must be greater than %d", state.nonce)
		}
	}
	s.callerNonces[actorKey] = callerNonceState{nonce: nonce, expires: expiry}
	return nil
}
