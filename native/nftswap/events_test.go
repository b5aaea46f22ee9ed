package nftswap

import (
	"encoding/hex"
	"testing"
)

func TestNewPoolInitializedEvent(t *testing.T) {
	pool := &Pool{
		Authority:    newTestAddress(0x01),
		CollectionID: "dragons",
		SwapFee:      1000,
	}
	addr, bump, err := DeriveAddress(SeedPool, poolSeed("dragons"))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	pool.Bump = bump

	evt := NewPoolInitializedEvent(pool, 1_700_000_000)
	if evt.Type != EventTypePoolInitialized {
		t.Fatalf("type: %s", evt.Type)
	}
	if evt.Attributes["collection"] != "dragons" {
		t.Fatalf("collection attr: %q", evt.Attributes["collection"])
	}
	if evt.Attributes["swapFee"] != "1000" {
		t.Fatalf("swapFee attr: %q", evt.Attributes["swapFee"])
	}
	if evt.Attributes["pool"] != hex.EncodeToString(addr[:]) {
		t.Fatalf("pool attr: %q", evt.Attributes["pool"])
	}
	if evt.Attributes["timestamp"] != "1700000000" {
		t.Fatalf("timestamp attr: %q", evt.Attributes["timestamp"])
	}
}

func TestNewSwapExecutedEvent(t *testing.T) {
	pool := &Pool{Authority: newTestAddress(0x01), CollectionID: "dragons"}
	user := newTestAddress(0x05)
	collector := newTestAddress(0x09)
	received := newTestAsset(0xAA)
	surrendered := newTestAsset(0xBB)

	evt := NewSwapExecutedEvent(pool, user, collector, received, surrendered, 1000, 1_700_000_000)
	if evt.Type != EventTypeSwapExecuted {
		t.Fatalf("type: %s", evt.Type)
	}
	if evt.Attributes["fee"] != "1000" {
		t.Fatalf("fee attr: %q", evt.Attributes["fee"])
	}
	if evt.Attributes["assetReceived"] != hex.EncodeToString(received[:]) {
		t.Fatalf("assetReceived attr: %q", evt.Attributes["assetReceived"])
	}
	if evt.Attributes["assetSurrendered"] != hex.EncodeToString(surrendered[:]) {
		t.Fatalf("assetSurrendered attr: %q", evt.Attributes["assetSurrendered"])
	}
	if evt.Attributes["user"] != hex.EncodeToString(user[:]) {
		t.Fatalf("user attr: %q", evt.Attributes["user"])
	}
}

func TestNewSwapOrderCreatedEvent(t *testing.T) {
	order := &SwapOrder{
		User:          newTestAddress(0x05),
		TargetAsset:   newTestAsset(0xAA),
		DesiredTraits: []string{"fire", "gold-trim"},
		Active:        true,
	}
	evt := NewSwapOrderCreatedEvent(order, 1_700_000_000)
	if evt.Type != EventTypeSwapOrderCreated {
		t.Fatalf("type: %s", evt.Type)
	}
	if evt.Attributes["traitCount"] != "2" {
		t.Fatalf("traitCount attr: %q", evt.Attributes["traitCount"])
	}
}

func TestEventsTolerateNilRecords(t *testing.T) {
	if evt := NewPoolStatsUpdatedEvent(nil, 1); evt.Attributes["timestamp"] != "1" {
		t.Fatalf("nil pool stats event: %+v", evt)
	}
	if evt := NewSwapOrderCreatedEvent(nil, 1); evt.Type != EventTypeSwapOrderCreated {
		t.Fatalf("nil order event: %+v", evt)
	}
}
