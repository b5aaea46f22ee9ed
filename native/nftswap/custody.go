package nftswap

import (
	"fmt"
	"math/big"

	"nftswap/core/types"
)

func ensureAccount(acc *types.Account) *types.Account {
	if acc == nil {
		return &types.Account{Balance: big.NewInt(0)}
	}
	if acc.Balance == nil {
		acc.Balance = big.NewInt(0)
	}
	return acc
}

// transferSOL moves native currency between accounts. A failed leg aborts the
// enclosing operation; the state overlay discards any partial effect.
func (e *Engine) transferSOL(from, to [20]byte, amount uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if amount == 0 {
		return nil
	}
	amt := new(big.Int).SetUint64(amount)
	fromAcc, err := e.state.GetAccount(from[:])
	if err != nil {
		return err
	}
	toAcc, err := e.state.GetAccount(to[:])
	if err != nil {
		return err
	}
	fromAcc = ensureAccount(fromAcc)
	toAcc = ensureAccount(toAcc)
	if fromAcc.Balance.Cmp(amt) < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientFunds, addrHex(from), fromAcc.Balance, amt)
	}
	fromAcc.Balance = new(big.Int).Sub(fromAcc.Balance, amt)
	toAcc.Balance = new(big.Int).Add(toAcc.Balance, amt)
	if err := e.state.PutAccount(from[:], fromAcc); err != nil {
		return err
	}
	return e.state.PutAccount(to[:], toAcc)
}

// poolDebitSOL is the withdrawal path for pool-held currency. The pool is
// both sender and signer, so the generic transfer primitive is bypassed and
// the debit is authorized by the pool's own derivation proof. The balance
// left behind must not fall below the minimum reserve.
func (e *Engine) poolDebitSOL(pool *Pool, to [20]byte, amount uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	poolAddr, err := pool.Address()
	if err != nil {
		return err
	}
	if err := VerifyDerived(poolAddr, SeedPool, poolSeed(pool.CollectionID), pool.Bump); err != nil {
		return err
	}
	amt := new(big.Int).SetUint64(amount)
	poolAcc, err := e.state.GetAccount(poolAddr[:])
	if err != nil {
		return err
	}
	poolAcc = ensureAccount(poolAcc)
	remaining := new(big.Int).Sub(poolAcc.Balance, amt)
	if remaining.Sign() < 0 {
		return fmt.Errorf("%w: pool holds %s, withdrawal %s", ErrInsufficientFunds, poolAcc.Balance, amt)
	}
	if remaining.Cmp(new(big.Int).SetUint64(e.minReserve)) < 0 {
		return fmt.Errorf("%w: %s would remain, reserve is %d", ErrInsufficientReserve, remaining, e.minReserve)
	}
	toAcc, err := e.state.GetAccount(to[:])
	if err != nil {
		return err
	}
	toAcc = ensureAccount(toAcc)
	poolAcc.Balance = remaining
	toAcc.Balance = new(big.Int).Add(toAcc.Balance, amt)
	if err := e.state.PutAccount(poolAddr[:], poolAcc); err != nil {
		return err
	}
	return e.state.PutAccount(to[:], toAcc)
}

// transferAsset moves custody of a single non-fungible asset. The registry
// holder must match the source; quantity is always exactly one.
func (e *Engine) transferAsset(from, to [20]byte, asset [32]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	owner, ok := e.state.AssetOwner(asset)
	if !ok || owner != from {
		return fmt.Errorf("%w: asset %x", ErrAssetNotHeld, asset[:4])
	}
	return e.state.SetAssetOwner(asset, to)
}

// transferAssetFromPool releases the pool's held asset. The outbound leg is
// authorized by the pool's derivation proof in place of a holder signature:
// this is how the escrow signs for itself.
func (e *Engine) transferAssetFromPool(pool *Pool, to [20]byte, asset [32]byte) error {
	poolAddr, err := pool.Address()
	if err != nil {
		return err
	}
	if err := VerifyDerived(poolAddr, SeedPool, poolSeed(pool.CollectionID), pool.Bump); err != nil {
		return err
	}
	return e.transferAsset(poolAddr, to, asset)
}

func addrHex(addr [20]byte) string {
	return fmt.Sprintf("%x", addr[:4])
}
