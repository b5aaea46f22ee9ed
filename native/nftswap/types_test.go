package nftswap

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateCollectionID(t *testing.T) {
	if err := ValidateCollectionID("dragons"); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	if err := ValidateCollectionID(strings.Repeat("x", MaxCollectionIDLen)); err != nil {
		t.Fatalf("32-byte id rejected: %v", err)
	}
	if err := ValidateCollectionID(""); !errors.Is(err, ErrInvalidCollectionID) {
		t.Fatalf("empty id: got %v", err)
	}
	if err := ValidateCollectionID(strings.Repeat("x", MaxCollectionIDLen+1)); !errors.Is(err, ErrInvalidCollectionID) {
		t.Fatalf("33-byte id: got %v", err)
	}
}

func TestPoolHoldsAsset(t *testing.T) {
	pool := &Pool{CollectionID: "dragons"}
	if pool.HoldsAsset() {
		t.Fatalf("zero slot must read as empty")
	}
	pool.HeldAsset = newTestAsset(0xAA)
	if !pool.HoldsAsset() {
		t.Fatalf("occupied slot must read as held")
	}
}

func TestPoolClone(t *testing.T) {
	pool := &Pool{
		Authority:    newTestAddress(0x01),
		CollectionID: "dragons",
		SwapFee:      1000,
		NFTCount:     3,
		TotalVolume:  9000,
		HeldAsset:    newTestAsset(0xAA),
		Bump:         250,
	}
	clone := pool.Clone()
	clone.SwapFee = 1
	clone.HeldAsset = newTestAsset(0xBB)
	if pool.SwapFee != 1000 || pool.HeldAsset != newTestAsset(0xAA) {
		t.Fatalf("clone must not alias the original")
	}
}

func TestSwapOrderClone(t *testing.T) {
	order := &SwapOrder{
		User:          newTestAddress(0x05),
		DesiredTraits: []string{"fire", "gold-trim"},
		Active:        true,
	}
	clone := order.Clone()
	clone.DesiredTraits[0] = "ice"
	if order.DesiredTraits[0] != "fire" {
		t.Fatalf("clone must deep-copy traits")
	}
}

func TestSanitizePool(t *testing.T) {
	pool := &Pool{Authority: newTestAddress(0x01), CollectionID: "  dragons  "}
	clean, err := SanitizePool(pool)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if clean.CollectionID != "dragons" {
		t.Fatalf("collection not trimmed: %q", clean.CollectionID)
	}
	if pool.CollectionID != "  dragons  " {
		t.Fatalf("sanitize must not mutate the input")
	}
	if _, err := SanitizePool(&Pool{CollectionID: "   "}); !errors.Is(err, ErrInvalidCollectionID) {
		t.Fatalf("blank id: got %v", err)
	}
	if _, err := SanitizePool(nil); err == nil {
		t.Fatalf("nil pool must be rejected")
	}
}

func TestSanitizeOrder(t *testing.T) {
	order := &SwapOrder{User: newTestAddress(0x05), DesiredTraits: []string{"fire"}}
	clean, err := SanitizeOrder(order)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if len(clean.DesiredTraits) != 1 {
		t.Fatalf("traits lost in sanitize")
	}
	over := &SwapOrder{DesiredTraits: []string{strings.Repeat("a", MaxTraitNameLen+1)}}
	if _, err := SanitizeOrder(over); !errors.Is(err, ErrTraitNameTooLong) {
		t.Fatalf("oversized trait: got %v", err)
	}
}
