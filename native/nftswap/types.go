package nftswap

import (
	"fmt"
	"strings"
)

// Bounds enforced on caller-supplied inputs. Collection identifiers double as
// derivation seeds, so their length is capped; trait descriptors are bounded
// to keep order records small.
const (
	MaxCollectionIDLen = 32
	MaxDesiredTraits   = 10
	MaxTraitNameLen    = 50
)

// LamportsPerSOL is the number of smallest currency units per whole SOL.
const LamportsPerSOL = 1_000_000_000

// Pool is the per-collection escrow record. The address it lives at is
// derived from (SeedPool, CollectionID) and the stored Bump reconstructs
// that derivation. The custody slot holds at most one asset at a time;
// HeldAsset is zero when empty.
type Pool struct {
	Authority    [20]byte
	CollectionID string
	SwapFee      uint64
	NFTCount     uint32
	TotalVolume  uint64
	HeldAsset    [32]byte
	Bump         uint8
}

// Address recomputes the pool's derived address from its own fields.
func (p *Pool) Address() ([20]byte, error) {
	if p == nil {
		return [20]byte{}, fmt.Errorf("nftswap: nil pool")
	}
	addr, ok := deriveCandidate(SeedPool, poolSeed(p.CollectionID), p.Bump)
	if !ok {
		return [20]byte{}, ErrAddressMismatch
	}
	return addr, nil
}

// HoldsAsset reports whether the custody slot is occupied.
func (p *Pool) HoldsAsset() bool {
	return p != nil && p.HeldAsset != ([32]byte{})
}

// Clone returns a deep copy of the pool record.
func (p *Pool) Clone() *Pool {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// SwapOrder records a user's intent to receive a specific asset, or any asset
// matching the desired traits, from a pool. An order is consumed exactly once
// by settlement and never reactivated.
type SwapOrder struct {
	User          [20]byte
	TargetAsset   [32]byte
	DesiredTraits []string
	Active        bool
	Bump          uint8
}

// Clone returns a deep copy of the order record.
func (o *SwapOrder) Clone() *SwapOrder {
	if o == nil {
		return nil
	}
	clone := *o
	clone.DesiredTraits = append([]string(nil), o.DesiredTraits...)
	return &clone
}

// ValidateCollectionID enforces the [1,32] byte bound on collection seeds.
func ValidateCollectionID(id string) error {
	if len(id) == 0 || len(id) > MaxCollectionIDLen {
		return ErrInvalidCollectionID
	}
	return nil
}

// ValidateTraits enforces cardinality and per-entry length bounds on desired
// trait descriptors.
func ValidateTraits(traits []string) error {
	if len(traits) > MaxDesiredTraits {
		return ErrTooManyTraits
	}
	for _, trait := range traits {
		if len(trait) > MaxTraitNameLen {
			return ErrTraitNameTooLong
		}
	}
	return nil
}

// SanitizePool validates and normalises a pool definition, returning a clone.
// The original value is not mutated.
func SanitizePool(p *Pool) (*Pool, error) {
	if p == nil {
		return nil, fmt.Errorf("nftswap: nil pool")
	}
	clone := p.Clone()
	clone.CollectionID = strings.TrimSpace(clone.CollectionID)
	if err := ValidateCollectionID(clone.CollectionID); err != nil {
		return nil, err
	}
	return clone, nil
}

// SanitizeOrder validates a swap order definition, returning a clone.
func SanitizeOrder(o *SwapOrder) (*SwapOrder, error) {
	if o == nil {
		return nil, fmt.Errorf("nftswap: nil swap order")
	}
	clone := o.Clone()
	if err := ValidateTraits(clone.DesiredTraits); err != nil {
		return nil, err
	}
	return clone, nil
}
