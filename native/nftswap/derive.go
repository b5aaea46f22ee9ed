package nftswap

import (
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Derivation seed namespaces. The tuple (tag, seed, bump) fully determines an
// escrow address; the stored bump lets later calls verify legitimacy without
// repeating the search.
const (
	SeedPool      = "pool"
	SeedSwapOrder = "swap_order"
)

// DeriveAddress computes the deterministic escrow address for the given
// namespace tag and seed. The bump search descends from 255 and rejects any
// candidate whose hash is the X coordinate of a valid secp256k1 point: an
// escrow address must never coincide with an address somebody could hold a
// private key for.
func DeriveAddress(tag string, seed []byte) ([20]byte, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		addr, ok := deriveCandidate(tag, seed, uint8(bump))
		if ok {
			return addr, uint8(bump), nil
		}
	}
	return [20]byte{}, 0, fmt.Errorf("nftswap: no valid bump for seed %q/%x", tag, seed)
}

// VerifyDerived checks that addr is the legitimate derivation of (tag, seed)
// under the supplied bump. It must be called before mutating any Pool or
// SwapOrder record so a caller cannot substitute an unrelated account with a
// matching layout.
func VerifyDerived(addr [20]byte, tag string, seed []byte, bump uint8) error {
	derived, ok := deriveCandidate(tag, seed, bump)
	if !ok || derived != addr {
		return ErrAddressMismatch
	}
	return nil
}

func deriveCandidate(tag string, seed []byte, bump uint8) ([20]byte, bool) {
	buf := make([]byte, 0, len(tag)+len(seed)+1)
	buf = append(buf, tag...)
	buf = append(buf, seed...)
	buf = append(buf, bump)
	hash := ethcrypto.Keccak256(buf)
	if onCurve(hash) {
		return [20]byte{}, false
	}
	var addr [20]byte
	copy(addr[:], hash[12:])
	return addr, true
}

// onCurve reports whether the 32-byte hash decompresses to a point on
// secp256k1 when treated as a compressed public key X coordinate.
func onCurve(hash []byte) bool {
	compressed := make([]byte, 33)
	compressed[0] = 0x02
	copy(compressed[1:], hash)
	_, err := ethcrypto.DecompressPubkey(compressed)
	return err == nil
}

func poolSeed(collectionID string) []byte {
	return []byte(collectionID)
}

func orderSeed(user [20]byte) []byte {
	return append([]byte(nil), user[:]...)
}
