package nftswap

import (
	"encoding/hex"
	"strconv"

	"nftswap/core/types"
)

const (
	EventTypePoolInitialized  = "nftswap.pool_initialized"
	EventTypePoolStatsUpdated = "nftswap.pool_stats_updated"
	EventTypeSolDeposited     = "nftswap.sol_deposited"
	EventTypeSolWithdrawn     = "nftswap.sol_withdrawn"
	EventTypeSwapOrderCreated = "nftswap.swap_order_created"
	EventTypeSwapExecuted     = "nftswap.swap_executed"
	EventTypeAssetDeposited   = "nftswap.asset_deposited"
)

// NewPoolInitializedEvent returns the canonical payload for a freshly created
// pool.
func NewPoolInitializedEvent(p *Pool, ts int64) *types.Event {
	attrs := poolAttrs(p, ts)
	attrs["swapFee"] = strconv.FormatUint(poolSwapFee(p), 10)
	return &types.Event{Type: EventTypePoolInitialized, Attributes: attrs}
}

// NewPoolStatsUpdatedEvent returns the payload emitted after an authority
// refreshes pool counters.
func NewPoolStatsUpdatedEvent(p *Pool, ts int64) *types.Event {
	attrs := poolAttrs(p, ts)
	if p != nil {
		attrs["nftCount"] = strconv.FormatUint(uint64(p.NFTCount), 10)
		attrs["totalVolume"] = strconv.FormatUint(p.TotalVolume, 10)
	}
	return &types.Event{Type: EventTypePoolStatsUpdated, Attributes: attrs}
}

// NewSolDepositedEvent returns the payload for a currency deposit into the
// pool escrow account.
func NewSolDepositedEvent(p *Pool, from [20]byte, amount uint64, ts int64) *types.Event {
	attrs := poolAttrs(p, ts)
	attrs["from"] = hex.EncodeToString(from[:])
	attrs["amount"] = strconv.FormatUint(amount, 10)
	return &types.Event{Type: EventTypeSolDeposited, Attributes: attrs}
}

// NewSolWithdrawnEvent returns the payload for an authority withdrawal from
// the pool escrow account.
func NewSolWithdrawnEvent(p *Pool, to [20]byte, amount uint64, ts int64) *types.Event {
	attrs := poolAttrs(p, ts)
	attrs["to"] = hex.EncodeToString(to[:])
	attrs["amount"] = strconv.FormatUint(amount, 10)
	return &types.Event{Type: EventTypeSolWithdrawn, Attributes: attrs}
}

// NewSwapOrderCreatedEvent returns the payload for a recorded swap intent.
func NewSwapOrderCreatedEvent(o *SwapOrder, ts int64) *types.Event {
	attrs := map[string]string{
		"timestamp": strconv.FormatInt(ts, 10),
	}
	if o != nil {
		attrs["user"] = hex.EncodeToString(o.User[:])
		attrs["targetAsset"] = hex.EncodeToString(o.TargetAsset[:])
		attrs["traitCount"] = strconv.Itoa(len(o.DesiredTraits))
	}
	return &types.Event{Type: EventTypeSwapOrderCreated, Attributes: attrs}
}

// NewSwapExecutedEvent returns the payload for a settled swap: fee leg plus
// the two asset legs. received is the asset handed to the user, surrendered
// the asset taken into custody.
func NewSwapExecutedEvent(p *Pool, user, feeCollector [20]byte, received, surrendered [32]byte, fee uint64, ts int64) *types.Event {
	attrs := poolAttrs(p, ts)
	attrs["user"] = hex.EncodeToString(user[:])
	attrs["feeCollector"] = hex.EncodeToString(feeCollector[:])
	attrs["fee"] = strconv.FormatUint(fee, 10)
	attrs["assetReceived"] = hex.EncodeToString(received[:])
	attrs["assetSurrendered"] = hex.EncodeToString(surrendered[:])
	return &types.Event{Type: EventTypeSwapExecuted, Attributes: attrs}
}

// NewAssetDepositedEvent returns the payload for an admin custody deposit.
func NewAssetDepositedEvent(p *Pool, asset [32]byte, ts int64) *types.Event {
	attrs := poolAttrs(p, ts)
	attrs["asset"] = hex.EncodeToString(asset[:])
	return &types.Event{Type: EventTypeAssetDeposited, Attributes: attrs}
}

func poolAttrs(p *Pool, ts int64) map[string]string {
	attrs := map[string]string{
		"timestamp": strconv.FormatInt(ts, 10),
	}
	if p == nil {
		return attrs
	}
	attrs["collection"] = p.CollectionID
	attrs["authority"] = hex.EncodeToString(p.Authority[:])
	if addr, err := p.Address(); err == nil {
		attrs["pool"] = hex.EncodeToString(addr[:])
	}
	return attrs
}

func poolSwapFee(p *Pool) uint64 {
	if p == nil {
		return 0
	}
	return p.SwapFee
}
