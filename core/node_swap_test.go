package core

import (
	"errors"
	"testing"

	"nftswap/core/events"
	"nftswap/native/nftswap"
	"nftswap/storage"
)

type sinkRecorder struct {
	received []string
}

func (s *sinkRecorder) Emit(evt events.Event) {
	s.received = append(s.received, evt.EventType())
}

func nodeTestAddr(b byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = b
	}
	return addr
}

func nodeTestAsset(b byte) [32]byte {
	var asset [32]byte
	for i := range asset {
		asset[i] = b
	}
	return asset
}

func newTestNode(t *testing.T) (*Node, *sinkRecorder) {
	t.Helper()
	node := NewNode(storage.NewMemDB(), nil)
	sink := &sinkRecorder{}
	node.SetEventSink(sink)
	return node, sink
}

func balanceOf(t *testing.T, node *Node, addr [20]byte) uint64 {
	t.Helper()
	acc, err := node.GetAccount(addr[:])
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return acc.Balance.Uint64()
}

func TestNodeSwapLifecycle(t *testing.T) {
	node, sink := newTestNode(t)
	authority := nodeTestAddr(0x01)
	user := nodeTestAddr(0x05)
	feeCollector := nodeTestAddr(0x09)
	poolAsset := nodeTestAsset(0xAA)
	userAsset := nodeTestAsset(0xBB)

	if err := node.Credit(authority, 10*nftswap.LamportsPerSOL); err != nil {
		t.Fatalf("credit authority: %v", err)
	}
	if err := node.Credit(user, nftswap.LamportsPerSOL); err != nil {
		t.Fatalf("credit user: %v", err)
	}
	if err := node.SwapRegisterAsset(poolAsset, "dragons", authority); err != nil {
		t.Fatalf("register pool asset: %v", err)
	}
	if err := node.SwapRegisterAsset(userAsset, "dragons", user); err != nil {
		t.Fatalf("register user asset: %v", err)
	}

	pool, err := node.SwapInitializePool(authority, "dragons", 1000)
	if err != nil {
		t.Fatalf("initialize pool: %v", err)
	}
	if err := node.SwapDepositAsset(authority, "dragons", poolAsset); err != nil {
		t.Fatalf("deposit asset: %v", err)
	}
	if _, err := node.SwapCreateOrder(user, poolAsset, []string{"fire"}); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := node.SwapExecute(user, user, "dragons", 1000, feeCollector, userAsset); err != nil {
		t.Fatalf("execute swap: %v", err)
	}

	if got := balanceOf(t, node, feeCollector); got != 1000 {
		t.Fatalf("fee collector balance: %d", got)
	}
	if owner, ok := node.SwapAssetOwner(poolAsset); !ok || owner != user {
		t.Fatalf("user must hold the pool's former asset")
	}
	poolAddr, err := pool.Address()
	if err != nil {
		t.Fatalf("pool address: %v", err)
	}
	if owner, ok := node.SwapAssetOwner(userAsset); !ok || owner != poolAddr {
		t.Fatalf("pool must hold the surrendered asset")
	}

	refreshed, err := node.SwapGetPool("dragons")
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if refreshed.TotalVolume != 1000 || refreshed.HeldAsset != userAsset {
		t.Fatalf("pool bookkeeping: %+v", refreshed)
	}
	order, err := node.SwapGetOrder(user)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.Active {
		t.Fatalf("order must be consumed")
	}

	wantEvents := []string{
		nftswap.EventTypePoolInitialized,
		nftswap.EventTypeAssetDeposited,
		nftswap.EventTypeSwapOrderCreated,
		nftswap.EventTypeSwapExecuted,
	}
	if len(sink.received) != len(wantEvents) {
		t.Fatalf("event count: %v", sink.received)
	}
	for i, want := range wantEvents {
		if sink.received[i] != want {
			t.Fatalf("event %d: got %s want %s", i, sink.received[i], want)
		}
	}

	collections, err := node.SwapListCollections()
	if err != nil {
		t.Fatalf("list collections: %v", err)
	}
	if len(collections) != 1 || collections[0] != "dragons" {
		t.Fatalf("collections: %v", collections)
	}
}

func TestNodeRejectedOperationLeavesNoTrace(t *testing.T) {
	node, sink := newTestNode(t)
	authority := nodeTestAddr(0x01)
	user := nodeTestAddr(0x05)
	feeCollector := nodeTestAddr(0x09)
	poolAsset := nodeTestAsset(0xAA)
	userAsset := nodeTestAsset(0xBB)

	if err := node.Credit(authority, 10*nftswap.LamportsPerSOL); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := node.Credit(user, nftswap.LamportsPerSOL); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := node.SwapRegisterAsset(poolAsset, "dragons", authority); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := node.SwapRegisterAsset(userAsset, "dragons", user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := node.SwapInitializePool(authority, "dragons", 1000); err != nil {
		t.Fatalf("initialize pool: %v", err)
	}
	if err := node.SwapDepositAsset(authority, "dragons", poolAsset); err != nil {
		t.Fatalf("deposit asset: %v", err)
	}
	if _, err := node.SwapCreateOrder(user, poolAsset, nil); err != nil {
		t.Fatalf("create order: %v", err)
	}
	emitted := len(sink.received)
	userBefore := balanceOf(t, node, user)

	// Wrong fee: the settlement is rejected and nothing changes.
	if err := node.SwapExecute(user, user, "dragons", 999, feeCollector, userAsset); !errors.Is(err, nftswap.ErrInvalidFeeAmount) {
		t.Fatalf("expected ErrInvalidFeeAmount, got %v", err)
	}
	if got := balanceOf(t, node, feeCollector); got != 0 {
		t.Fatalf("fee must not settle: %d", got)
	}
	if got := balanceOf(t, node, user); got != userBefore {
		t.Fatalf("user balance changed on rejection: %d", got)
	}
	if owner, _ := node.SwapAssetOwner(userAsset); owner != user {
		t.Fatalf("asset custody changed on rejection")
	}
	if len(sink.received) != emitted {
		t.Fatalf("rejected operation must not emit: %v", sink.received)
	}
	order, err := node.SwapGetOrder(user)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if !order.Active {
		t.Fatalf("order must survive rejection")
	}
}

func TestNodePauseBlocksOperations(t *testing.T) {
	node, _ := newTestNode(t)
	authority := nodeTestAddr(0x01)
	if err := node.Credit(authority, 10*nftswap.LamportsPerSOL); err != nil {
		t.Fatalf("credit: %v", err)
	}

	node.SetPaused("nftswap", true)
	if _, err := node.SwapInitializePool(authority, "dragons", 0); err == nil {
		t.Fatalf("paused module must reject operations")
	}
	if !node.IsPaused("nftswap") {
		t.Fatalf("pause state lost")
	}

	node.SetPaused("nftswap", false)
	if _, err := node.SwapInitializePool(authority, "dragons", 0); err != nil {
		t.Fatalf("unpaused operation: %v", err)
	}
}

func TestNodeDirectSwap(t *testing.T) {
	node, _ := newTestNode(t)
	authority := nodeTestAddr(0x01)
	user := nodeTestAddr(0x05)
	feeCollector := nodeTestAddr(0x09)
	poolAsset := nodeTestAsset(0xAA)
	userAsset := nodeTestAsset(0xBB)

	if err := node.Credit(authority, 10*nftswap.LamportsPerSOL); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := node.Credit(user, nftswap.LamportsPerSOL); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := node.SwapRegisterAsset(poolAsset, "dragons", authority); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := node.SwapRegisterAsset(userAsset, "dragons", user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := node.SwapInitializePool(authority, "dragons", 500); err != nil {
		t.Fatalf("initialize pool: %v", err)
	}
	if err := node.SwapDepositAsset(authority, "dragons", poolAsset); err != nil {
		t.Fatalf("deposit asset: %v", err)
	}

	if err := node.SwapDirect(user, "dragons", 500, feeCollector, userAsset); err != nil {
		t.Fatalf("direct swap: %v", err)
	}
	if owner, _ := node.SwapAssetOwner(poolAsset); owner != user {
		t.Fatalf("asset not delivered")
	}
	if got := balanceOf(t, node, feeCollector); got != 500 {
		t.Fatalf("fee collector balance: %d", got)
	}
}
