package core

import (
	"path/filepath"
	"testing"

	"nftswap/native/nftswap"
	"nftswap/storage"
)

func TestNodeStatePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nftswap-db")

	db, err := storage.NewLevelDB(path)
	if err != nil {
		t.Fatalf("open leveldb: %v", err)
	}

	authority := nodeTestAddr(0x01)
	node := NewNode(db, nil)
	if err := node.Credit(authority, 10*nftswap.LamportsPerSOL); err != nil {
		t.Fatalf("credit: %v", err)
	}
	pool, err := node.SwapInitializePool(authority, "dragons", 1000)
	if err != nil {
		t.Fatalf("initialize pool: %v", err)
	}
	if err := node.SwapUpdatePoolStats(authority, "dragons", 12, 3400); err != nil {
		t.Fatalf("update stats: %v", err)
	}
	db.Close()

	reopened, err := storage.NewLevelDB(path)
	if err != nil {
		t.Fatalf("reopen leveldb: %v", err)
	}
	defer reopened.Close()

	restarted := NewNode(reopened, nil)
	loaded, err := restarted.SwapGetPool("dragons")
	if err != nil {
		t.Fatalf("get pool after reopen: %v", err)
	}
	if loaded.Bump != pool.Bump || loaded.SwapFee != 1000 {
		t.Fatalf("pool record lost: %+v", loaded)
	}
	if loaded.NFTCount != 12 || loaded.TotalVolume != 3400 {
		t.Fatalf("stats lost: %+v", loaded)
	}
	addr, err := loaded.Address()
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	acc, err := restarted.GetAccount(addr[:])
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if acc.Balance.Uint64() != nftswap.DefaultMinimumReserve {
		t.Fatalf("reserve lost: %s", acc.Balance)
	}
}
