package brokerage

import (
	"maps"
	"slices"
	"time"
)

// account carries the state shared by both account variants: cash balance,
// nickname, creation time and the append-only transaction log.
//
// Mutators are unexported: all mutation goes through the owning Bank, which
// serializes it behind its lock. Read accessors are safe on copies only.
type account struct {
	id           int
	balance      Money
	nickname     string
	createdAt    time.Time
	transactions []Transaction
}

func (a *account) ID() int             { return a.id }
func (a *account) Balance() Money      { return a.balance }
func (a *account) Nickname() string    { return a.nickname }
func (a *account) CreatedAt() time.Time { return a.createdAt }

// Transactions returns a copy of the account's transaction log, in insertion
// order.
func (a *account) Transactions() []Transaction {
	return slices.Clone(a.transactions)
}

// deposit credits the balance and appends a Deposit transaction.
func (a *account) deposit(amount Money, description string) Money {
	a.balance = a.balance.Add(amount)
	a.transactions = append(a.transactions, NewDeposit(amount, description))
	return a.balance
}

// withdraw debits the balance and appends a Withdraw transaction. It fails
// with ErrInsufficientFunds when the balance does not cover the amount, and
// leaves the account untouched in that case.
func (a *account) withdraw(amount Money, description string) (Money, error) {
	if a.balance.LessThan(amount) {
		return a.balance, ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	a.transactions = append(a.transactions, NewWithdraw(amount, description))
	return a.balance, nil
}

// CheckingAccount holds cash and its transaction log, nothing else.
type CheckingAccount struct {
	account
}

func newCheckingAccount(id int, nickname string) *CheckingAccount {
	return &CheckingAccount{account: account{
		id:        id,
		balance:   M(0),
		nickname:  nickname,
		createdAt: time.Now().UTC(),
	}}
}

// clone returns a deep copy, safe to hand out beyond the Bank's lock.
func (a *CheckingAccount) clone() CheckingAccount {
	cp := *a
	cp.transactions = slices.Clone(a.transactions)
	return cp
}

// InvestmentAccount extends a checking account with a holdings map keyed by
// ticker symbol.
type InvestmentAccount struct {
	account
	assets map[string]Holding
}

func newInvestmentAccount(id int, nickname string) *InvestmentAccount {
	return &InvestmentAccount{
		account: account{
			id:        id,
			balance:   M(0),
			nickname:  nickname,
			createdAt: time.Now().UTC(),
		},
		assets: make(map[string]Holding),
	}
}

// Holdings returns a copy of the holdings map.
func (a *InvestmentAccount) Holdings() map[string]Holding {
	return maps.Clone(a.assets)
}

// Holding returns the position held for a symbol, if any.
func (a *InvestmentAccount) Holding(symbol string) (Holding, bool) {
	h, ok := a.assets[symbol]
	return h, ok
}

// purchase buys quantity units of symbol at the given unit price. The total
// cost is debited from the balance, the holding's weighted average cost is
// recomputed, and a Purchase transaction is appended. Nothing is mutated when
// the balance cannot cover the cost.
func (a *InvestmentAccount) purchase(symbol string, price Money, quantity Quantity) error {
	totalCost := price.Mul(quantity)
	if a.balance.LessThan(totalCost) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(totalCost)
	if holding, ok := a.assets[symbol]; ok {
		a.assets[symbol] = holding.averaged(quantity, totalCost)
	} else {
		a.assets[symbol] = Holding{AverageCost: totalCost.Div(quantity), Quantity: quantity}
	}
	a.transactions = append(a.transactions, NewPurchase(symbol, quantity, totalCost))
	return nil
}

// sell sells quantity units of symbol at the given unit price. The proceeds
// are credited to the balance and the holding's quantity is reduced; the
// average cost per unit of the remaining position is left unchanged, per the
// average-cost method. A position sold down to zero is removed from the
// holdings map. Nothing is mutated when the held quantity is insufficient.
func (a *InvestmentAccount) sell(symbol string, price Money, quantity Quantity) error {
	holding, ok := a.assets[symbol]
	if !ok || holding.Quantity.LessThan(quantity) {
		return ErrInsufficientQuantity
	}
	totalSale := price.Mul(quantity)
	a.balance = a.balance.Add(totalSale)
	holding.Quantity = holding.Quantity.Sub(quantity)
	if holding.Quantity.IsZero() {
		delete(a.assets, symbol)
	} else {
		a.assets[symbol] = holding
	}
	a.transactions = append(a.transactions, NewSale(symbol, quantity, totalSale))
	return nil
}

// creditDividend credits a dividend payout to the balance and appends a
// Dividend transaction dated at the payment date.
func (a *InvestmentAccount) creditDividend(symbol string, quantity Quantity, amount Money, payDate time.Time) Money {
	a.balance = a.balance.Add(amount)
	a.transactions = append(a.transactions, NewDividend(symbol, quantity, amount, payDate))
	return a.balance
}

// clone returns a deep copy, safe to hand out beyond the Bank's lock.
func (a *InvestmentAccount) clone() InvestmentAccount {
	cp := *a
	cp.transactions = slices.Clone(a.transactions)
	cp.assets = maps.Clone(a.assets)
	return cp
}
