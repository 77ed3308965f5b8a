package domain

import "fmt"

// EnsureSufficientBalance makes sure the given balance, as reported by the
// chain, is strictly positive and covers the amount to transfer
func EnsureSufficientBalance(balance int64, amount uint64) error {
	if balance <= 0 || uint64(balance) < amount {
		return fmt.Errorf(
			"%w: balance %d is lower than amount %d",
			ErrInsufficientBalance, balance, amount,
		)
	}
	return nil
}
