package brokerage

import (
	"testing"
)

// TestInvestmentAccount_TradeScenario walks a full deposit/purchase/sell
// sequence and checks balance and cost basis at every step.
func TestInvestmentAccount_TradeScenario(t *testing.T) {
	acc := newInvestmentAccount(1, "retirement")
	acc.deposit(M(100), "")

	// buy 2 AAPL at 10: balance 100-20=80, holding {qty 2, avg 10}
	if err := acc.purchase("AAPL", M(10), Q(2)); err != nil {
		t.Fatalf("purchase() returned an unexpected error: %v", err)
	}
	if got, want := acc.Balance(), M(80); !got.Equal(want) {
		t.Errorf("Balance() after first purchase = %s, want %s", got, want)
	}
	h, ok := acc.Holding("AAPL")
	if !ok {
		t.Fatal("Holding(AAPL) missing after purchase")
	}
	if !h.Quantity.Equal(Q(2)) || !h.AverageCost.Equal(M(10)) {
		t.Errorf("holding after first purchase = {qty %s, avg %s}, want {qty 2, avg 10}", h.Quantity, h.AverageCost)
	}

	// buy 1 more at 40: balance 80-40=40, avg (2*10+40)/3 = 20
	if err := acc.purchase("AAPL", M(40), Q(1)); err != nil {
		t.Fatalf("purchase() returned an unexpected error: %v", err)
	}
	h, _ = acc.Holding("AAPL")
	if !h.Quantity.Equal(Q(3)) || !h.AverageCost.Equal(M(20)) {
		t.Errorf("holding after second purchase = {qty %s, avg %s}, want {qty 3, avg 20}", h.Quantity, h.AverageCost)
	}

	// sell 1 at 50: balance 40+50=90, avg cost unchanged
	if err := acc.sell("AAPL", M(50), Q(1)); err != nil {
		t.Fatalf("sell() returned an unexpected error: %v", err)
	}
	if got, want := acc.Balance(), M(90); !got.Equal(want) {
		t.Errorf("Balance() after sell = %s, want %s", got, want)
	}
	h, _ = acc.Holding("AAPL")
	if !h.Quantity.Equal(Q(2)) || !h.AverageCost.Equal(M(20)) {
		t.Errorf("holding after sell = {qty %s, avg %s}, want {qty 2, avg 20}", h.Quantity, h.AverageCost)
	}
}

func TestInvestmentAccount_AverageCost(t *testing.T) {
	testCases := []struct {
		name           string
		q1, q2         int
		p1, p2         float64
		wantAvg        float64
		wantQuantity   int
	}{
		{name: "equal lots", q1: 1, p1: 10, q2: 1, p2: 30, wantAvg: 20, wantQuantity: 2},
		{name: "weighted toward big lot", q1: 3, p1: 10, q2: 1, p2: 50, wantAvg: 20, wantQuantity: 4},
		{name: "same price", q1: 2, p1: 15, q2: 5, p2: 15, wantAvg: 15, wantQuantity: 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			acc := newInvestmentAccount(1, "")
			acc.deposit(M(1000), "")
			if err := acc.purchase("GOOG", M(tc.p1), Q(tc.q1)); err != nil {
				t.Fatalf("first purchase: %v", err)
			}
			if err := acc.purchase("GOOG", M(tc.p2), Q(tc.q2)); err != nil {
				t.Fatalf("second purchase: %v", err)
			}
			h, ok := acc.Holding("GOOG")
			if !ok {
				t.Fatal("Holding(GOOG) missing")
			}
			if !h.AverageCost.Equal(M(tc.wantAvg)) {
				t.Errorf("AverageCost = %s, want %v", h.AverageCost, tc.wantAvg)
			}
			if !h.Quantity.Equal(Q(tc.wantQuantity)) {
				t.Errorf("Quantity = %s, want %d", h.Quantity, tc.wantQuantity)
			}
		})
	}
}

func TestInvestmentAccount_SellAllRemovesHolding(t *testing.T) {
	acc := newInvestmentAccount(1, "")
	acc.deposit(M(100), "")
	if err := acc.purchase("MSFT", M(10), Q(4)); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if err := acc.sell("MSFT", M(12), Q(4)); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if _, ok := acc.Holding("MSFT"); ok {
		t.Error("Holding(MSFT) still present after selling the whole position")
	}
	if got := len(acc.Holdings()); got != 0 {
		t.Errorf("len(Holdings()) = %d, want 0", got)
	}
}

func TestInvestmentAccount_SellRejections(t *testing.T) {
	acc := newInvestmentAccount(1, "")
	acc.deposit(M(100), "")
	if err := acc.purchase("MSFT", M(10), Q(2)); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	before := acc.Balance()
	txs := len(acc.Transactions())

	testCases := []struct {
		name     string
		symbol   string
		quantity Quantity
	}{
		{name: "unknown symbol", symbol: "AAPL", quantity: Q(1)},
		{name: "more than held", symbol: "MSFT", quantity: Q(3)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := acc.sell(tc.symbol, M(10), tc.quantity)
			if err != ErrInsufficientQuantity {
				t.Fatalf("sell() error = %v, want ErrInsufficientQuantity", err)
			}
			if !acc.Balance().Equal(before) {
				t.Errorf("balance changed on failed sell: %s, want %s", acc.Balance(), before)
			}
			if got := len(acc.Transactions()); got != txs {
				t.Errorf("transaction log grew on failed sell: %d, want %d", got, txs)
			}
		})
	}
}

func TestAccount_WithdrawInsufficientFunds(t *testing.T) {
	acc := newCheckingAccount(1, "")
	acc.deposit(M(50), "")

	if _, err := acc.withdraw(M(51), ""); err != ErrInsufficientFunds {
		t.Fatalf("withdraw() error = %v, want ErrInsufficientFunds", err)
	}
	if !acc.Balance().Equal(M(50)) {
		t.Errorf("balance changed on failed withdraw: %s, want $50.00", acc.Balance())
	}
	if got := len(acc.Transactions()); got != 1 {
		t.Errorf("transaction log grew on failed withdraw: %d entries, want 1", got)
	}
}

func TestInvestmentAccount_PurchaseInsufficientFunds(t *testing.T) {
	acc := newInvestmentAccount(1, "")
	acc.deposit(M(30), "")

	if err := acc.purchase("AAPL", M(10), Q(4)); err != ErrInsufficientFunds {
		t.Fatalf("purchase() error = %v, want ErrInsufficientFunds", err)
	}
	if !acc.Balance().Equal(M(30)) {
		t.Errorf("balance changed on failed purchase: %s, want $30.00", acc.Balance())
	}
	if _, ok := acc.Holding("AAPL"); ok {
		t.Error("holding created on failed purchase")
	}
}

// TestAccount_BuySellRoundTrip checks that buying and immediately selling the
// same quantity at the same price restores the pre-trade balance exactly.
func TestAccount_BuySellRoundTrip(t *testing.T) {
	acc := newInvestmentAccount(1, "")
	acc.deposit(M(123.45), "")
	before := acc.Balance()

	if err := acc.purchase("NVDA", M(31.41), Q(3)); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if err := acc.sell("NVDA", M(31.41), Q(3)); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if !acc.Balance().Equal(before) {
		t.Errorf("round-trip balance = %s, want %s", acc.Balance(), before)
	}
}

// TestAccount_LedgerIsFaithful checks that the balance always equals the sum
// of the transaction log's signed cash effects.
func TestAccount_LedgerIsFaithful(t *testing.T) {
	acc := newInvestmentAccount(1, "")
	acc.deposit(M(500), "paycheck")
	acc.withdraw(M(120), "rent")
	acc.purchase("AAPL", M(17.5), Q(4))
	acc.purchase("GOOG", M(99), Q(2))
	acc.sell("AAPL", M(21), Q(3))
	acc.deposit(M(42.42), "")

	sum := M(0)
	for _, tx := range acc.Transactions() {
		sum = sum.Add(tx.CashEffect())
	}
	if !sum.Equal(acc.Balance()) {
		t.Errorf("sum of cash effects = %s, balance = %s; the log is not a faithful cash ledger", sum, acc.Balance())
	}
}
