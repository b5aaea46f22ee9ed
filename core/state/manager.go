package state

import (
	"fmt"
	"math/big"
	"sort"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"nftswap/core/types"
	"nftswap/native/nftswap"
)

// Key namespaces. Raw keys are keccak-hashed with their prefix so records of
// different kinds can never collide in the flat store.
var (
	prefixAccount    = []byte("acct/")
	prefixPool       = []byte("pool/")
	prefixOrder      = []byte("order/")
	prefixAssetOwner = []byte("asset/owner/")
	prefixAssetColl  = []byte("asset/coll/")
	poolIndexKey     = []byte("pool/index")
)

// KV is the minimal store the manager reads and writes through. Both the raw
// database and a transactional overlay satisfy it.
type KV interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Has(key []byte) (bool, error)
}

// Manager provides typed access to the swap engine's persistent records over
// a flat key-value store. It carries no caches; every read goes through the
// underlying KV so an overlay sees its own uncommitted writes.
type Manager struct {
	kv KV
}

// NewManager wraps the given store.
func NewManager(kv KV) *Manager {
	return &Manager{kv: kv}
}

func storageKey(prefix []byte, raw []byte) []byte {
	buf := make([]byte, 0, len(prefix)+len(raw))
	buf = append(buf, prefix...)
	buf = append(buf, raw...)
	return ethcrypto.Keccak256(buf)
}

func (m *Manager) readRLP(key []byte, out interface{}) (bool, error) {
	ok, err := m.kv.Has(key)
	if err != nil || !ok {
		return false, err
	}
	raw, err := m.kv.Get(key)
	if err != nil {
		return false, err
	}
	if err := rlp.DecodeBytes(raw, out); err != nil {
		return false, fmt.Errorf("state: decode record: %w", err)
	}
	return true, nil
}

func (m *Manager) writeRLP(key []byte, in interface{}) error {
	raw, err := rlp.EncodeToBytes(in)
	if err != nil {
		return fmt.Errorf("state: encode record: %w", err)
	}
	return m.kv.Put(key, raw)
}

// GetAccount returns the account record for addr, or a fresh zero-balance
// account when none exists yet.
func (m *Manager) GetAccount(addr []byte) (*types.Account, error) {
	account := &types.Account{Balance: big.NewInt(0)}
	if _, err := m.readRLP(storageKey(prefixAccount, addr), account); err != nil {
		return nil, err
	}
	if account.Balance == nil {
		account.Balance = big.NewInt(0)
	}
	return account, nil
}

// PutAccount persists the account record for addr.
func (m *Manager) PutAccount(addr []byte, account *types.Account) error {
	if account == nil {
		return fmt.Errorf("state: nil account")
	}
	stored := account.Clone()
	return m.writeRLP(storageKey(prefixAccount, addr), stored)
}

// PoolPut persists the pool record at its derived address and keeps the
// collection index current.
func (m *Manager) PoolPut(pool *nftswap.Pool) error {
	sanitized, err := nftswap.SanitizePool(pool)
	if err != nil {
		return err
	}
	addr, err := sanitized.Address()
	if err != nil {
		return err
	}
	if err := m.writeRLP(storageKey(prefixPool, addr[:]), sanitized); err != nil {
		return err
	}
	return m.indexCollection(sanitized.CollectionID)
}

// PoolGet loads the pool record stored at the derived address.
func (m *Manager) PoolGet(addr [20]byte) (*nftswap.Pool, bool) {
	pool := new(nftswap.Pool)
	ok, err := m.readRLP(storageKey(prefixPool, addr[:]), pool)
	if err != nil || !ok {
		return nil, false
	}
	return pool, true
}

// OrderPut persists the swap order record at its derived address.
func (m *Manager) OrderPut(addr [20]byte, order *nftswap.SwapOrder) error {
	sanitized, err := nftswap.SanitizeOrder(order)
	if err != nil {
		return err
	}
	return m.writeRLP(storageKey(prefixOrder, addr[:]), sanitized)
}

// OrderGet loads the swap order record stored at the derived address.
func (m *Manager) OrderGet(addr [20]byte) (*nftswap.SwapOrder, bool) {
	order := new(nftswap.SwapOrder)
	ok, err := m.readRLP(storageKey(prefixOrder, addr[:]), order)
	if err != nil || !ok {
		return nil, false
	}
	return order, true
}

// AssetOwner returns the current custody holder of the asset.
func (m *Manager) AssetOwner(asset [32]byte) ([20]byte, bool) {
	var owner [20]byte
	raw := make([]byte, 0, 20)
	ok, err := m.readRLP(storageKey(prefixAssetOwner, asset[:]), &raw)
	if err != nil || !ok || len(raw) != 20 {
		return [20]byte{}, false
	}
	copy(owner[:], raw)
	return owner, true
}

// SetAssetOwner records the custody holder of the asset.
func (m *Manager) SetAssetOwner(asset [32]byte, owner [20]byte) error {
	return m.writeRLP(storageKey(prefixAssetOwner, asset[:]), owner[:])
}

// AssetCollection returns the collection the asset was registered under.
func (m *Manager) AssetCollection(asset [32]byte) (string, bool) {
	var collection string
	ok, err := m.readRLP(storageKey(prefixAssetColl, asset[:]), &collection)
	if err != nil || !ok {
		return "", false
	}
	return collection, true
}

// RegisterAsset binds an asset to its collection and initial holder. The
// collection binding is immutable once set.
func (m *Manager) RegisterAsset(asset [32]byte, collection string, owner [20]byte) error {
	if err := nftswap.ValidateCollectionID(collection); err != nil {
		return err
	}
	if existing, ok := m.AssetCollection(asset); ok && existing != collection {
		return fmt.Errorf("state: asset already registered under %q", existing)
	}
	if err := m.writeRLP(storageKey(prefixAssetColl, asset[:]), collection); err != nil {
		return err
	}
	return m.SetAssetOwner(asset, owner)
}

// Collections returns the sorted list of collection IDs with a pool.
func (m *Manager) Collections() ([]string, error) {
	var index []string
	if _, err := m.readRLP(storageKey(prefixPool, poolIndexKey), &index); err != nil {
		return nil, err
	}
	return index, nil
}

func (m *Manager) indexCollection(collectionID string) error {
	index, err := m.Collections()
	if err != nil {
		return err
	}
	for _, existing := range index {
		if existing == collectionID {
			return nil
		}
	}
	index = append(index, collectionID)
	sort.Strings(index)
	return m.writeRLP(storageKey(prefixPool, poolIndexKey), index)
}
