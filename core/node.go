package core

import (
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"nftswap/core/events"
	swapstate "nftswap/core/state"
	"nftswap/core/types"
	"nftswap/native/nftswap"
	"nftswap/observability/metrics"
	"nftswap/storage"
)

// Node is the central controller. Every public operation runs the swap engine
// against a transactional overlay; the overlay commits only when the
// operation succeeds, and buffered events reach the durable sink only after
// the commit. The mutex serializes operations so settlements never interleave.
type Node struct {
	db      storage.Database
	log     *slog.Logger
	sink    events.Emitter
	metrics *metrics.SwapMetrics

	mu     sync.Mutex
	pauses *pauseRegistry

	minReserve uint64
	maxDeposit uint64
}

// NewNode wires a node over the given database.
func NewNode(db storage.Database, logger *slog.Logger) *Node {
	if logger == nil {
		logger = slog.Default()
	}
	return &Node{
		db:         db,
		log:        logger,
		sink:       events.NoopEmitter{},
		metrics:    metrics.Swap(),
		pauses:     newPauseRegistry(),
		minReserve: nftswap.DefaultMinimumReserve,
		maxDeposit: nftswap.DefaultMaxDeposit,
	}
}

// SetEventSink configures the durable sink receiving committed events.
func (n *Node) SetEventSink(sink events.Emitter) {
	if sink == nil {
		sink = events.NoopEmitter{}
	}
	n.sink = sink
}

// SetMinimumReserve overrides the pool reserve floor.
func (n *Node) SetMinimumReserve(v uint64) { n.minReserve = v }

// SetMaxDeposit overrides the per-call deposit cap.
func (n *Node) SetMaxDeposit(v uint64) { n.maxDeposit = v }

// SetPaused toggles the administrative kill switch for a module.
func (n *Node) SetPaused(module string, paused bool) {
	n.pauses.set(module, paused)
	n.log.Warn("module pause toggled", "module", module, "paused", paused)
}

// IsPaused reports the kill-switch state for a module.
func (n *Node) IsPaused(module string) bool {
	return n.pauses.IsPaused(module)
}

type pauseRegistry struct {
	mu     sync.RWMutex
	paused map[string]bool
}

func newPauseRegistry() *pauseRegistry {
	return &pauseRegistry{paused: make(map[string]bool)}
}

func (p *pauseRegistry) IsPaused(module string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.paused[module]
}

func (p *pauseRegistry) set(module string, paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused[module] = paused
}

// bufferingEmitter holds events until the enclosing operation commits. A
// discarded operation leaves no event trace.
type bufferingEmitter struct {
	events []events.Event
}

func (b *bufferingEmitter) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	b.events = append(b.events, evt)
}

func (b *bufferingEmitter) flush(sink events.Emitter) {
	for _, evt := range b.events {
		sink.Emit(evt)
	}
	b.events = nil
}

func (n *Node) newSwapEngine(manager *swapstate.Manager, buffer *bufferingEmitter) *nftswap.Engine {
	engine := nftswap.NewEngine()
	engine.SetState(manager)
	engine.SetEmitter(buffer)
	engine.SetPauses(n.pauses)
	engine.SetMinimumReserve(n.minReserve)
	engine.SetMaxDeposit(n.maxDeposit)
	return engine
}

// withSwapEngine runs fn against a fresh overlay and commits on success.
func (n *Node) withSwapEngine(op string, fn func(*nftswap.Engine) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	txn := swapstate.NewTxn(n.db)
	buffer := &bufferingEmitter{}
	engine := n.newSwapEngine(swapstate.NewManager(txn), buffer)

	if err := fn(engine); err != nil {
		txn.Discard()
		n.metrics.ObserveRejection(op)
		n.log.Info("swap operation rejected", "op", op, "error", err)
		return err
	}
	if err := txn.Commit(); err != nil {
		n.log.Error("swap operation commit failed", "op", op, "error", err)
		return fmt.Errorf("core: commit %s: %w", op, err)
	}
	buffer.flush(n.sink)
	return nil
}

// SwapInitializePool creates the escrow pool for a collection.
func (n *Node) SwapInitializePool(authority [20]byte, collectionID string, swapFee uint64) (*nftswap.Pool, error) {
	var pool *nftswap.Pool
	err := n.withSwapEngine("initialize_pool", func(engine *nftswap.Engine) error {
		created, err := engine.InitializePool(authority, collectionID, swapFee)
		if err != nil {
			return err
		}
		pool = created
		return nil
	})
	if err == nil {
		n.metrics.ObservePoolInitialized()
	}
	return pool, err
}

// SwapUpdatePoolStats refreshes a pool's NFT count and volume counters.
func (n *Node) SwapUpdatePoolStats(caller [20]byte, collectionID string, nftCount uint32, volumeDelta uint64) error {
	return n.withSwapEngine("update_pool_stats", func(engine *nftswap.Engine) error {
		return engine.UpdatePoolStats(caller, collectionID, nftCount, volumeDelta)
	})
}

// SwapDepositSOL moves caller funds into the pool escrow account.
func (n *Node) SwapDepositSOL(caller [20]byte, collectionID string, amount uint64) error {
	err := n.withSwapEngine("deposit_sol", func(engine *nftswap.Engine) error {
		return engine.DepositSOL(caller, collectionID, amount)
	})
	if err == nil {
		n.metrics.ObserveSolDeposited(amount)
	}
	return err
}

// SwapWithdrawSOL releases pool funds to the authority.
func (n *Node) SwapWithdrawSOL(caller [20]byte, collectionID string, amount uint64) error {
	err := n.withSwapEngine("withdraw_sol", func(engine *nftswap.Engine) error {
		return engine.WithdrawSOL(caller, collectionID, amount)
	})
	if err == nil {
		n.metrics.ObserveSolWithdrawn(amount)
	}
	return err
}

// SwapCreateOrder records the user's swap intent.
func (n *Node) SwapCreateOrder(user [20]byte, targetAsset [32]byte, desiredTraits []string) (*nftswap.SwapOrder, error) {
	var order *nftswap.SwapOrder
	err := n.withSwapEngine("create_swap_order", func(engine *nftswap.Engine) error {
		created, err := engine.CreateSwapOrder(user, targetAsset, desiredTraits)
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err == nil {
		n.metrics.ObserveOrderCreated()
	}
	return order, err
}

// SwapDepositAsset places an asset into the pool custody slot.
func (n *Node) SwapDepositAsset(caller [20]byte, collectionID string, asset [32]byte) error {
	return n.withSwapEngine("deposit_asset", func(engine *nftswap.Engine) error {
		return engine.DepositAsset(caller, collectionID, asset)
	})
}

// SwapExecute settles an active order atomically: fee leg and both asset legs
// either all commit or none do.
func (n *Node) SwapExecute(caller, user [20]byte, collectionID string, feeOffered uint64, feeCollector [20]byte, userAsset [32]byte) error {
	err := n.withSwapEngine("execute_swap", func(engine *nftswap.Engine) error {
		return engine.ExecuteSwap(caller, user, collectionID, feeOffered, feeCollector, userAsset)
	})
	if err == nil {
		n.metrics.ObserveSwapExecuted("order", feeOffered)
	}
	return err
}

// SwapDirect settles a custody swap that has no order record.
func (n *Node) SwapDirect(user [20]byte, collectionID string, feeOffered uint64, feeCollector [20]byte, userAsset [32]byte) error {
	err := n.withSwapEngine("swap_asset", func(engine *nftswap.Engine) error {
		return engine.SwapAsset(user, collectionID, feeOffered, feeCollector, userAsset)
	})
	if err == nil {
		n.metrics.ObserveSwapExecuted("direct", feeOffered)
	}
	return err
}

// SwapRegisterAsset binds an asset to a collection and initial holder. This
// is the mint-registration hook used by operators and tests.
func (n *Node) SwapRegisterAsset(asset [32]byte, collectionID string, owner [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	txn := swapstate.NewTxn(n.db)
	manager := swapstate.NewManager(txn)
	if err := manager.RegisterAsset(asset, collectionID, owner); err != nil {
		txn.Discard()
		return err
	}
	return txn.Commit()
}

// Credit adds funds to an account. Operator faucet; not reachable from the
// public surface without the admin token.
func (n *Node) Credit(addr [20]byte, amount uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	txn := swapstate.NewTxn(n.db)
	manager := swapstate.NewManager(txn)
	account, err := manager.GetAccount(addr[:])
	if err != nil {
		txn.Discard()
		return err
	}
	account.Balance = new(big.Int).Add(account.Balance, new(big.Int).SetUint64(amount))
	if err := manager.PutAccount(addr[:], account); err != nil {
		txn.Discard()
		return err
	}
	return txn.Commit()
}

// SwapGetPool returns the pool record for a collection.
func (n *Node) SwapGetPool(collectionID string) (*nftswap.Pool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	engine := n.newSwapEngine(swapstate.NewManager(n.db), &bufferingEmitter{})
	return engine.Pool(collectionID)
}

// SwapGetOrder returns the order record for a user.
func (n *Node) SwapGetOrder(user [20]byte) (*nftswap.SwapOrder, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	engine := n.newSwapEngine(swapstate.NewManager(n.db), &bufferingEmitter{})
	return engine.Order(user)
}

// SwapListCollections returns the collections that have a pool.
func (n *Node) SwapListCollections() ([]string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return swapstate.NewManager(n.db).Collections()
}

// SwapAssetOwner reports the registered custody holder of an asset.
func (n *Node) SwapAssetOwner(asset [32]byte) ([20]byte, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return swapstate.NewManager(n.db).AssetOwner(asset)
}

// GetAccount returns the account record for an address.
func (n *Node) GetAccount(addr []byte) (*types.Account, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return swapstate.NewManager(n.db).GetAccount(addr)
}
