package service

import "github.com/shopspring/decimal"

// Reconcile computes the expected cash in the drawer at close:
// starting balance plus cash collected minus expenses paid out.
func Reconcile(starting, cashCollected, expenses decimal.Decimal) decimal.Decimal {
	return starting.Add(cashCollected).Sub(expenses)
}
