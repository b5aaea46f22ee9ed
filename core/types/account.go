package types

import "math/big"

// Account is the ledger-side record for a single address. Balance is held in
// lamports, the smallest native currency unit. CodeHash is non-empty for
// executable (program) accounts; the swap engine refuses to route fees to
// those.
type Account struct {
	Nonce    uint64   `json:"nonce"`
	Balance  *big.Int `json:"balance"`
	CodeHash []byte   `json:"codeHash,omitempty"`
}

// IsExecutable reports whether the account carries program code.
func (a *Account) IsExecutable() bool {
	return a != nil && len(a.CodeHash) > 0
}

// Clone returns a deep copy so callers can mutate the result freely.
func (a *Account) Clone() *Account {
	if a == nil {
		return &Account{Balance: big.NewInt(0)}
	}
	clone := &Account{
		Nonce:    a.Nonce,
		Balance:  big.NewInt(0),
		CodeHash: append([]byte(nil), a.CodeHash...),
	}
	if a.Balance != nil {
		clone.Balance = new(big.Int).Set(a.Balance)
	}
	return clone
}
