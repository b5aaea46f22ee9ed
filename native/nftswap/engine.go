package nftswap

import (
	"errors"
	"fmt"
	"math"
	"time"

	"nftswap/core/events"
	"nftswap/core/types"
	nativecommon "nftswap/native/common"
)

var errNilState = errors.New("nftswap engine: state not configured")

const moduleName = "nftswap"

// Default engine parameters. The minimum reserve mirrors the ledger's
// rent-exemption floor for a zero-data account; the deposit cap bounds the
// pool's currency exposure per call.
const (
	DefaultMinimumReserve uint64 = 890_880
	DefaultMaxDeposit     uint64 = 100 * LamportsPerSOL
)

type engineState interface {
	PoolPut(*Pool) error
	PoolGet(addr [20]byte) (*Pool, bool)
	OrderPut(addr [20]byte, order *SwapOrder) error
	OrderGet(addr [20]byte) (*SwapOrder, bool)
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
	AssetOwner(asset [32]byte) ([20]byte, bool)
	SetAssetOwner(asset [32]byte, owner [20]byte) error
	AssetCollection(asset [32]byte) (string, bool)
}

type swapEvent struct {
	evt *types.Event
}

func (e swapEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e swapEvent) Event() *types.Event { return e.evt }

// Engine wires the pool escrow business logic with external state and event
// emitters. Every public operation validates authorization and input bounds
// before the first transfer; the backing state overlay guarantees that a
// failed operation leaves no partial effects.
type Engine struct {
	state      engineState
	emitter    events.Emitter
	pauses     nativecommon.PauseView
	nowFn      func() int64
	minReserve uint64
	maxDeposit uint64
}

// NewEngine creates a swap engine with a no-op emitter and default
// parameters. Callers can override via the setters.
func NewEngine() *Engine {
	return &Engine{
		emitter:    events.NoopEmitter{},
		nowFn:      func() int64 { return time.Now().Unix() },
		minReserve: DefaultMinimumReserve,
		maxDeposit: DefaultMaxDeposit,
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetPauses configures the pause view consulted before every operation.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetMinimumReserve overrides the reserve floor enforced on withdrawals.
func (e *Engine) SetMinimumReserve(v uint64) { e.minReserve = v }

// SetMaxDeposit overrides the per-call deposit cap. Zero disables deposits.
func (e *Engine) SetMaxDeposit(v uint64) { e.maxDeposit = v }

// SetNowFunc overrides the time source. Primarily intended for tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEmitter configures the event emitter. Passing nil resets to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(swapEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// InitializePool creates the per-collection escrow record at its derived
// address. The authority funds the minimum reserve of the new escrow account,
// mirroring caller-funded account creation on the ledger.
func (e *Engine) InitializePool(authority [20]byte, collectionID string, swapFee uint64) (*Pool, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if err := ValidateCollectionID(collectionID); err != nil {
		return nil, err
	}
	addr, bump, err := DeriveAddress(SeedPool, poolSeed(collectionID))
	if err != nil {
		return nil, err
	}
	if _, ok := e.state.PoolGet(addr); ok {
		return nil, fmt.Errorf("%w: collection %q", ErrPoolExists, collectionID)
	}
	if e.minReserve > 0 {
		if err := e.transferSOL(authority, addr, e.minReserve); err != nil {
			return nil, err
		}
	}
	pool := &Pool{
		Authority:    authority,
		CollectionID: collectionID,
		SwapFee:      swapFee,
		Bump:         bump,
	}
	if err := e.state.PoolPut(pool); err != nil {
		return nil, err
	}
	e.emit(NewPoolInitializedEvent(pool, e.now()))
	return pool.Clone(), nil
}

// UpdatePoolStats overwrites the NFT count and accumulates volume. Only the
// pool authority may call it; the caller identity is signature-recovered
// upstream, never trusted from a request field.
func (e *Engine) UpdatePoolStats(caller [20]byte, collectionID string, nftCount uint32, volumeDelta uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	pool, _, err := e.loadPool(collectionID)
	if err != nil {
		return err
	}
	if caller != pool.Authority {
		return fmt.Errorf("%w: stats update requires pool authority", ErrUnauthorized)
	}
	volume, err := checkedAdd(pool.TotalVolume, volumeDelta)
	if err != nil {
		return err
	}
	pool.NFTCount = nftCount
	pool.TotalVolume = volume
	if err := e.state.PoolPut(pool); err != nil {
		return err
	}
	e.emit(NewPoolStatsUpdatedEvent(pool, e.now()))
	return nil
}

// DepositSOL moves currency from the caller into the pool escrow account.
// Deposits are capped to bound the pool's exposure per call.
func (e *Engine) DepositSOL(caller [20]byte, collectionID string, amount uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	if amount > e.maxDeposit {
		return fmt.Errorf("%w: %d exceeds cap %d", ErrAmountTooLarge, amount, e.maxDeposit)
	}
	pool, addr, err := e.loadPool(collectionID)
	if err != nil {
		return err
	}
	if err := e.transferSOL(caller, addr, amount); err != nil {
		return err
	}
	e.emit(NewSolDepositedEvent(pool, caller, amount, e.now()))
	return nil
}

// WithdrawSOL releases pool-held currency to the authority. The escrow
// account must retain at least the minimum reserve afterwards.
func (e *Engine) WithdrawSOL(caller [20]byte, collectionID string, amount uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	pool, _, err := e.loadPool(collectionID)
	if err != nil {
		return err
	}
	if caller != pool.Authority {
		return fmt.Errorf("%w: withdrawal requires pool authority", ErrUnauthorized)
	}
	if err := e.poolDebitSOL(pool, caller, amount); err != nil {
		return err
	}
	e.emit(NewSolWithdrawnEvent(pool, caller, amount, e.now()))
	return nil
}

// CreateSwapOrder records a user's swap intent at the user-derived address.
// An active order occupies the address; a consumed one may be replaced.
func (e *Engine) CreateSwapOrder(user [20]byte, targetAsset [32]byte, desiredTraits []string) (*SwapOrder, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if err := ValidateTraits(desiredTraits); err != nil {
		return nil, err
	}
	addr, bump, err := DeriveAddress(SeedSwapOrder, orderSeed(user))
	if err != nil {
		return nil, err
	}
	if existing, ok := e.state.OrderGet(addr); ok && existing.Active {
		return nil, fmt.Errorf("%w: user %s", ErrOrderExists, addrHex(user))
	}
	order := &SwapOrder{
		User:          user,
		TargetAsset:   targetAsset,
		DesiredTraits: append([]string(nil), desiredTraits...),
		Active:        true,
		Bump:          bump,
	}
	if err := e.state.OrderPut(addr, order); err != nil {
		return nil, err
	}
	e.emit(NewSwapOrderCreatedEvent(order, e.now()))
	return order.Clone(), nil
}

// DepositAsset places one collection asset into the pool's custody slot.
// Admin only; the slot holds at most one asset at a time.
func (e *Engine) DepositAsset(caller [20]byte, collectionID string, asset [32]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	pool, addr, err := e.loadPool(collectionID)
	if err != nil {
		return err
	}
	if caller != pool.Authority {
		return fmt.Errorf("%w: asset deposit requires pool authority", ErrUnauthorized)
	}
	if pool.HoldsAsset() {
		return ErrCustodyOccupied
	}
	if err := e.requireCollectionAsset(pool, asset); err != nil {
		return err
	}
	if err := e.transferAsset(caller, addr, asset); err != nil {
		return err
	}
	pool.HeldAsset = asset
	if err := e.state.PoolPut(pool); err != nil {
		return err
	}
	e.emit(NewAssetDepositedEvent(pool, asset, e.now()))
	return nil
}

// ExecuteSwap settles an active swap order: the user pays the exact fee,
// receives the pool's held asset and surrenders one of their own. All
// pre-conditions, including overflow feasibility of the volume bookkeeping,
// are checked before the first transfer so a settled fee can never be
// stranded by a later bookkeeping failure.
func (e *Engine) ExecuteSwap(caller, user [20]byte, collectionID string, feeOffered uint64, feeCollector [20]byte, userAsset [32]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	pool, _, err := e.loadPool(collectionID)
	if err != nil {
		return err
	}
	if caller != user && caller != pool.Authority {
		return fmt.Errorf("%w: settlement requires the order owner or pool authority", ErrUnauthorized)
	}
	orderAddr, order, err := e.loadOrder(user)
	if err != nil {
		return err
	}
	if !order.Active {
		return ErrInvalidOperation
	}
	if feeOffered != pool.SwapFee {
		return fmt.Errorf("%w: offered %d, pool fee %d", ErrInvalidFeeAmount, feeOffered, pool.SwapFee)
	}
	if err := e.requireNonExecutable(feeCollector); err != nil {
		return err
	}
	if !pool.HoldsAsset() {
		return ErrCustodyEmpty
	}
	if order.TargetAsset != ([32]byte{}) && order.TargetAsset != pool.HeldAsset {
		return fmt.Errorf("%w: pool does not hold the requested asset", ErrAssetNotHeld)
	}
	if err := e.requireCollectionAsset(pool, userAsset); err != nil {
		return err
	}
	if owner, ok := e.state.AssetOwner(userAsset); !ok || owner != user {
		return fmt.Errorf("%w: asset %x", ErrAssetNotHeld, userAsset[:4])
	}
	volume, err := checkedAdd(pool.TotalVolume, feeOffered)
	if err != nil {
		return err
	}

	received := pool.HeldAsset
	if err := e.transferSOL(user, feeCollector, feeOffered); err != nil {
		return err
	}
	if err := e.transferAssetFromPool(pool, user, received); err != nil {
		return err
	}
	poolAddr, err := pool.Address()
	if err != nil {
		return err
	}
	if err := e.transferAsset(user, poolAddr, userAsset); err != nil {
		return err
	}

	pool.TotalVolume = volume
	pool.HeldAsset = userAsset
	if err := e.state.PoolPut(pool); err != nil {
		return err
	}
	order.Active = false
	if err := e.state.OrderPut(orderAddr, order); err != nil {
		return err
	}
	e.emit(NewSwapExecutedEvent(pool, user, feeCollector, received, userAsset, feeOffered, e.now()))
	return nil
}

// SwapAsset is the direct custody swap without an order record: pay the fee,
// take the pool's held asset, hand over one of the same collection.
func (e *Engine) SwapAsset(user [20]byte, collectionID string, feeOffered uint64, feeCollector [20]byte, userAsset [32]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	pool, _, err := e.loadPool(collectionID)
	if err != nil {
		return err
	}
	if feeOffered != pool.SwapFee {
		return fmt.Errorf("%w: offered %d, pool fee %d", ErrInvalidFeeAmount, feeOffered, pool.SwapFee)
	}
	if err := e.requireNonExecutable(feeCollector); err != nil {
		return err
	}
	if !pool.HoldsAsset() {
		return ErrCustodyEmpty
	}
	if err := e.requireCollectionAsset(pool, userAsset); err != nil {
		return err
	}
	if owner, ok := e.state.AssetOwner(userAsset); !ok || owner != user {
		return fmt.Errorf("%w: asset %x", ErrAssetNotHeld, userAsset[:4])
	}
	volume, err := checkedAdd(pool.TotalVolume, feeOffered)
	if err != nil {
		return err
	}

	received := pool.HeldAsset
	if err := e.transferSOL(user, feeCollector, feeOffered); err != nil {
		return err
	}
	if err := e.transferAssetFromPool(pool, user, received); err != nil {
		return err
	}
	poolAddr, err := pool.Address()
	if err != nil {
		return err
	}
	if err := e.transferAsset(user, poolAddr, userAsset); err != nil {
		return err
	}

	pool.TotalVolume = volume
	pool.HeldAsset = userAsset
	if err := e.state.PoolPut(pool); err != nil {
		return err
	}
	e.emit(NewSwapExecutedEvent(pool, user, feeCollector, received, userAsset, feeOffered, e.now()))
	return nil
}

// Pool returns a copy of the pool record for the collection.
func (e *Engine) Pool(collectionID string) (*Pool, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	pool, _, err := e.loadPool(collectionID)
	if err != nil {
		return nil, err
	}
	return pool.Clone(), nil
}

// Order returns a copy of the user's swap order record.
func (e *Engine) Order(user [20]byte) (*SwapOrder, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	_, order, err := e.loadOrder(user)
	if err != nil {
		return nil, err
	}
	return order.Clone(), nil
}

func (e *Engine) loadPool(collectionID string) (*Pool, [20]byte, error) {
	if err := ValidateCollectionID(collectionID); err != nil {
		return nil, [20]byte{}, err
	}
	addr, _, err := DeriveAddress(SeedPool, poolSeed(collectionID))
	if err != nil {
		return nil, [20]byte{}, err
	}
	pool, ok := e.state.PoolGet(addr)
	if !ok {
		return nil, [20]byte{}, fmt.Errorf("%w: collection %q", ErrPoolNotFound, collectionID)
	}
	if err := VerifyDerived(addr, SeedPool, poolSeed(pool.CollectionID), pool.Bump); err != nil {
		return nil, [20]byte{}, err
	}
	return pool, addr, nil
}

func (e *Engine) loadOrder(user [20]byte) ([20]byte, *SwapOrder, error) {
	addr, _, err := DeriveAddress(SeedSwapOrder, orderSeed(user))
	if err != nil {
		return [20]byte{}, nil, err
	}
	order, ok := e.state.OrderGet(addr)
	if !ok {
		return [20]byte{}, nil, fmt.Errorf("%w: user %s", ErrOrderNotFound, addrHex(user))
	}
	if err := VerifyDerived(addr, SeedSwapOrder, orderSeed(order.User), order.Bump); err != nil {
		return [20]byte{}, nil, err
	}
	return addr, order, nil
}

func (e *Engine) requireNonExecutable(addr [20]byte) error {
	acc, err := e.state.GetAccount(addr[:])
	if err != nil {
		return err
	}
	if acc.IsExecutable() {
		return ErrInvalidFeeCollector
	}
	return nil
}

func (e *Engine) requireCollectionAsset(pool *Pool, asset [32]byte) error {
	collection, ok := e.state.AssetCollection(asset)
	if !ok || collection != pool.CollectionID {
		return fmt.Errorf("%w: asset %x", ErrCollectionMismatch, asset[:4])
	}
	return nil
}

func checkedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, fmt.Errorf("%w: %d + %d", ErrArithmeticOverflow, a, b)
	}
	return a + b, nil
}
