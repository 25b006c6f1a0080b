package brokerage

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// AccountType selects one of the two account variants a Bank can hold.
type AccountType int

const (
	Checking AccountType = iota
	Investment
)

func (t AccountType) String() string {
	switch t {
	case Checking:
		return "checking"
	case Investment:
		return "investment"
	default:
		return "unknown"
	}
}

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case "checking":
		return Checking, nil
	case "investment":
		return Investment, nil
	default:
		return 0, fmt.Errorf("unknown account type: %q", s)
	}
}

// Bank is the registry owning all accounts. It is the single shared mutable
// resource of the system: every mutation happens under its lock, and the
// critical sections are kept short. In particular no price lookup or other
// I/O ever runs while the lock is held; the Broker fetches prices first and
// only then calls into the Bank.
//
// Checking and investment accounts live in separate id namespaces. Ids are
// allocated as max(existing)+1 within a namespace, so an id is never reused
// after a close, but the same integer can name one account of each type.
// Every accessor is typed per variant, so the collision is never ambiguous.
type Bank struct {
	mu         sync.Mutex
	checking   map[int]*CheckingAccount
	investment map[int]*InvestmentAccount
}

// NewBank creates an empty bank.
func NewBank() *Bank {
	return &Bank{
		checking:   make(map[int]*CheckingAccount),
		investment: make(map[int]*InvestmentAccount),
	}
}

// nextID allocates the next id in a namespace. O(n) over existing ids, which
// is fine at personal-brokerage scale.
func nextID[T any](accounts map[int]*T) int {
	max := 0
	for id := range accounts {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Open allocates the next id in the matching namespace, inserts a new
// zero-balance account created now, and returns its id. It never fails.
func (b *Bank) Open(nickname string, typ AccountType) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if typ == Investment {
		id := nextID(b.investment)
		b.investment[id] = newInvestmentAccount(id, nickname)
		return id
	}
	id := nextID(b.checking)
	b.checking[id] = newCheckingAccount(id, nickname)
	return id
}

// Close removes an account from the registry. It fails with
// ErrAccountNotFound when the id is unknown in the namespace,
// ErrCloseAccountWithBalance when the cash balance is not exactly zero, and
// ErrCloseAccountWithHoldings when an investment account still holds open
// positions.
func (b *Bank) Close(typ AccountType, id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch typ {
	case Investment:
		acc, ok := b.investment[id]
		if !ok {
			return ErrAccountNotFound
		}
		if !acc.balance.IsZero() {
			return ErrCloseAccountWithBalance
		}
		if len(acc.assets) > 0 {
			return ErrCloseAccountWithHoldings
		}
		delete(b.investment, id)
	default:
		acc, ok := b.checking[id]
		if !ok {
			return ErrAccountNotFound
		}
		if !acc.balance.IsZero() {
			return ErrCloseAccountWithBalance
		}
		delete(b.checking, id)
	}
	return nil
}

// Checking returns a snapshot of a checking account.
func (b *Bank) Checking(id int) (CheckingAccount, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.checking[id]
	if !ok {
		return CheckingAccount{}, ErrAccountNotFound
	}
	return acc.clone(), nil
}

// Investment returns a snapshot of an investment account.
func (b *Bank) Investment(id int) (InvestmentAccount, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.investment[id]
	if !ok {
		return InvestmentAccount{}, ErrAccountNotFound
	}
	return acc.clone(), nil
}

// CheckingIDs returns the ids of all checking accounts, sorted.
func (b *Bank) CheckingIDs() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedIDs(b.checking)
}

// InvestmentIDs returns the ids of all investment accounts, sorted.
func (b *Bank) InvestmentIDs() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sortedIDs(b.investment)
}

func sortedIDs[T any](accounts map[int]*T) []int {
	ids := make([]int, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// cashAccount resolves the shared account state for either variant. Callers
// must hold the lock.
func (b *Bank) cashAccount(typ AccountType, id int) (*account, error) {
	if typ == Investment {
		acc, ok := b.investment[id]
		if !ok {
			return nil, ErrAccountNotFound
		}
		return &acc.account, nil
	}
	acc, ok := b.checking[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &acc.account, nil
}

// Deposit credits amount to an account and returns the new balance.
func (b *Bank) Deposit(typ AccountType, id int, amount Money, description string) (Money, error) {
	if !amount.IsPositive() {
		return Money{}, fmt.Errorf("deposit amount must be positive, got %s", amount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, err := b.cashAccount(typ, id)
	if err != nil {
		return Money{}, err
	}
	return acc.deposit(amount, description), nil
}

// Withdraw debits amount from an account and returns the new balance.
func (b *Bank) Withdraw(typ AccountType, id int, amount Money, description string) (Money, error) {
	if !amount.IsPositive() {
		return Money{}, fmt.Errorf("withdraw amount must be positive, got %s", amount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, err := b.cashAccount(typ, id)
	if err != nil {
		return Money{}, err
	}
	return acc.withdraw(amount, description)
}

// Purchase buys quantity units of symbol at the given unit price in an
// investment account and returns the new balance.
func (b *Bank) Purchase(id int, symbol string, price Money, quantity Quantity) (Money, error) {
	if !quantity.IsPositive() {
		return Money{}, fmt.Errorf("purchase quantity must be positive, got %s", quantity)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.investment[id]
	if !ok {
		return Money{}, ErrAccountNotFound
	}
	if err := acc.purchase(symbol, price, quantity); err != nil {
		return Money{}, err
	}
	return acc.balance, nil
}

// Sell sells quantity units of symbol at the given unit price in an
// investment account and returns the new balance.
func (b *Bank) Sell(id int, symbol string, price Money, quantity Quantity) (Money, error) {
	if !quantity.IsPositive() {
		return Money{}, fmt.Errorf("sell quantity must be positive, got %s", quantity)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.investment[id]
	if !ok {
		return Money{}, ErrAccountNotFound
	}
	if err := acc.sell(symbol, price, quantity); err != nil {
		return Money{}, err
	}
	return acc.balance, nil
}

// CreditDividend credits a dividend payout to an investment account and
// returns the new balance. The transaction is dated at payDate.
func (b *Bank) CreditDividend(id int, symbol string, quantity Quantity, amount Money, payDate time.Time) (Money, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.investment[id]
	if !ok {
		return Money{}, ErrAccountNotFound
	}
	return acc.creditDividend(symbol, quantity, amount, payDate), nil
}

// InvestmentHoldings returns a snapshot of every investment account's
// holdings, keyed by account id. The dividend reconciler uses it to plan a
// sweep without keeping the lock across provider calls.
func (b *Bank) InvestmentHoldings() map[int]map[string]Holding {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[int]map[string]Holding, len(b.investment))
	for id, acc := range b.investment {
		out[id] = acc.Holdings()
	}
	return out
}

// PaidDividends derives, from an investment account's transaction log, the
// set of payment dates a dividend has already been credited for, per symbol.
// This is the reconciler's idempotence ledger: it is recomputed from the log,
// never stored separately.
func (b *Bank) PaidDividends(id int) (map[string]map[Date]bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.investment[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	paid := make(map[string]map[Date]bool)
	for _, tx := range acc.transactions {
		if tx.Kind != KindDividend {
			continue
		}
		if paid[tx.Security] == nil {
			paid[tx.Security] = make(map[Date]bool)
		}
		paid[tx.Security][DateOf(tx.Date.UTC())] = true
	}
	return paid, nil
}
