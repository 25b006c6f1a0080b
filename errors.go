package brokerage

import "errors"

// Sentinel errors for every failure the ledger core can produce. Callers match
// them with errors.Is; upstream provider and filesystem failures additionally
// wrap the underlying cause.
var (
	ErrAccountNotFound          = errors.New("account not found")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrInsufficientQuantity     = errors.New("insufficient quantity")
	ErrCloseAccountWithBalance  = errors.New("cannot close account with a non-zero balance")
	ErrCloseAccountWithHoldings = errors.New("cannot close account with open holdings")
	ErrPriceUnavailable         = errors.New("price unavailable")
	ErrMarketClosed             = errors.New("market is closed")
	ErrUpstreamProvider         = errors.New("upstream provider error")
	ErrPersistence              = errors.New("persistence error")
)
