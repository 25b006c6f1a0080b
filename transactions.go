package brokerage

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionKind is a typed string identifying a balance-affecting event.
type TransactionKind string

// The five kinds of events an account ledger can record.
const (
	KindDeposit  TransactionKind = "deposit"
	KindWithdraw TransactionKind = "withdraw"
	KindPurchase TransactionKind = "purchase"
	KindSale     TransactionKind = "sale"
	KindDividend TransactionKind = "dividend"
)

// Transaction is an immutable record of a single balance-affecting event.
// Once appended to an account's log it is never mutated or removed, and the
// log's ordering is insertion order.
type Transaction struct {
	ID          uuid.UUID       // unique identity of the record
	Kind        TransactionKind // what happened
	Security    string          // ticker symbol, empty for cash-only kinds
	Quantity    Quantity        // units traded or held, zero for cash-only kinds
	Amount      Money           // positive magnitude of the cash effect
	Date        time.Time       // UTC instant of the event
	Description string          // optional free-form note
}

// NewDeposit records a cash deposit of the given amount.
func NewDeposit(amount Money, description string) Transaction {
	return Transaction{ID: uuid.New(), Kind: KindDeposit, Amount: amount, Date: time.Now().UTC(), Description: description}
}

// NewWithdraw records a cash withdrawal of the given amount.
func NewWithdraw(amount Money, description string) Transaction {
	return Transaction{ID: uuid.New(), Kind: KindWithdraw, Amount: amount, Date: time.Now().UTC(), Description: description}
}

// NewPurchase records the purchase of quantity units of a security for a
// total cost of amount.
func NewPurchase(security string, quantity Quantity, amount Money) Transaction {
	return Transaction{ID: uuid.New(), Kind: KindPurchase, Security: security, Quantity: quantity, Amount: amount, Date: time.Now().UTC()}
}

// NewSale records the sale of quantity units of a security for total proceeds
// of amount.
func NewSale(security string, quantity Quantity, amount Money) Transaction {
	return Transaction{ID: uuid.New(), Kind: KindSale, Security: security, Quantity: quantity, Amount: amount, Date: time.Now().UTC()}
}

// NewDividend records a dividend payout on quantity held units of a security.
// The transaction is dated at the payment date, midnight UTC, not at the time
// the reconciler discovered it.
func NewDividend(security string, quantity Quantity, amount Money, payDate time.Time) Transaction {
	return Transaction{ID: uuid.New(), Kind: KindDividend, Security: security, Quantity: quantity, Amount: amount, Date: payDate.UTC()}
}

// CashEffect returns the signed effect of this transaction on the owning
// account's cash balance. Summing the cash effects of an account's log yields
// the account's balance.
func (t Transaction) CashEffect() Money {
	switch t.Kind {
	case KindWithdraw, KindPurchase:
		return t.Amount.Neg()
	default:
		return t.Amount
	}
}

// Equal reports whether two transactions describe the same record.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Kind == o.Kind &&
		t.Security == o.Security &&
		t.Quantity.Equal(o.Quantity) &&
		t.Amount.Equal(o.Amount) &&
		t.Date.Equal(o.Date) &&
		t.Description == o.Description
}

// MarshalJSON implements the json.Marshaler interface with a fixed field
// order, so that re-encoding a decoded log is byte-identical.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("kind", t.Kind)
	w.Optional("security", t.Security)
	if !t.Quantity.IsZero() {
		w.Append("quantity", t.Quantity)
	}
	w.Append("amount", t.Amount)
	w.Append("date", t.Date.Format(time.RFC3339Nano))
	w.Optional("description", t.Description)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID          uuid.UUID       `json:"id"`
		Kind        TransactionKind `json:"kind"`
		Security    string          `json:"security"`
		Quantity    Quantity        `json:"quantity"`
		Amount      Money           `json:"amount"`
		Date        string          `json:"date"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	date, err := time.Parse(time.RFC3339Nano, temp.Date)
	if err != nil {
		return err
	}
	t.ID = temp.ID
	t.Kind = temp.Kind
	t.Security = temp.Security
	t.Quantity = temp.Quantity
	t.Amount = temp.Amount
	t.Date = date.UTC()
	t.Description = temp.Description
	return nil
}
