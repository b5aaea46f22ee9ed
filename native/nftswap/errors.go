package nftswap

import "errors"

// Engine error taxonomy. Every failure is a per-operation rejection surfaced
// to the caller; nothing here is retried or fatal.
var (
	// Authorization.
	ErrUnauthorized    = errors.New("nftswap: unauthorized")
	ErrAddressMismatch = errors.New("nftswap: derived address mismatch")

	// Validation.
	ErrInvalidCollectionID = errors.New("nftswap: collection id must be 1-32 bytes")
	ErrTooManyTraits       = errors.New("nftswap: too many desired traits")
	ErrTraitNameTooLong    = errors.New("nftswap: trait name too long")
	ErrInvalidAmount       = errors.New("nftswap: amount must be positive")
	ErrAmountTooLarge      = errors.New("nftswap: amount exceeds deposit limit")
	ErrInvalidFeeAmount    = errors.New("nftswap: fee must equal the pool swap fee")
	ErrInvalidFeeCollector = errors.New("nftswap: fee collector must not be executable")
	ErrCollectionMismatch  = errors.New("nftswap: asset does not belong to pool collection")

	// State.
	ErrInvalidOperation = errors.New("nftswap: swap order is not active")
	ErrPoolExists       = errors.New("nftswap: pool address already occupied")
	ErrPoolNotFound     = errors.New("nftswap: pool not found")
	ErrOrderExists      = errors.New("nftswap: swap order address already occupied")
	ErrOrderNotFound    = errors.New("nftswap: swap order not found")
	ErrAssetNotHeld     = errors.New("nftswap: source does not hold the asset")
	ErrCustodyOccupied  = errors.New("nftswap: pool custody slot already holds an asset")
	ErrCustodyEmpty     = errors.New("nftswap: pool custody slot is empty")

	// Solvency.
	ErrInsufficientFunds   = errors.New("nftswap: insufficient balance")
	ErrInsufficientReserve = errors.New("nftswap: withdrawal would breach minimum reserve")
	ErrArithmeticOverflow  = errors.New("nftswap: arithmetic overflow")
)
