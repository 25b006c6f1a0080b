package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/brokerage"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// mdStructure parses a rendered report and counts its headings and GFM table
// rows, so tests can assert the document's shape rather than its exact bytes.
func mdStructure(t *testing.T, md string) (headings, tableRows int) {
	t.Helper()
	source := []byte(md)
	parser := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()
	root := parser.Parse(text.NewReader(source))

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Heading:
			headings++
		case *east.TableRow:
			tableRows++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walking markdown: %v", err)
	}
	return headings, tableRows
}

func TestTransaction(t *testing.T) {
	payDate := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		tx   brokerage.Transaction
		want string
	}{
		{brokerage.NewDeposit(brokerage.M(100), ""), "Deposited $100.00"},
		{brokerage.NewWithdraw(brokerage.M(40), ""), "Withdrew $40.00"},
		{brokerage.NewPurchase("AAPL", brokerage.Q(2), brokerage.M(20)), "Bought 2 of AAPL for $20.00"},
		{brokerage.NewSale("AAPL", brokerage.Q(1), brokerage.M(50)), "Sold 1 of AAPL for $50.00"},
		{brokerage.NewDividend("KO", brokerage.Q(10), brokerage.M(4.85), payDate), "Dividend of $4.85 for KO"},
	}
	for _, test := range tests {
		if got := Transaction(test.tx); got != test.want {
			t.Errorf("Transaction(%s) = %q, want %q", test.tx.Kind, got, test.want)
		}
	}
}

func TestTransactions(t *testing.T) {
	txs := []brokerage.Transaction{
		brokerage.NewDeposit(brokerage.M(100), "opening"),
		brokerage.NewPurchase("AAPL", brokerage.Q(2), brokerage.M(20)),
	}
	md := Transactions(txs)

	headings, rows := mdStructure(t, md)
	if headings != 1 {
		t.Errorf("got %d headings, want 1:\n%s", headings, md)
	}
	// Header row plus one row per transaction.
	if rows != len(txs) {
		t.Errorf("got %d table rows, want %d:\n%s", rows, len(txs), md)
	}
	if !strings.Contains(md, "| AAPL |") {
		t.Errorf("missing AAPL row:\n%s", md)
	}
	// Cash effects carry their sign.
	if !strings.Contains(md, "+$100.00") || !strings.Contains(md, "-$20.00") {
		t.Errorf("missing signed cash effects:\n%s", md)
	}
}

func TestTransactions_Empty(t *testing.T) {
	md := Transactions(nil)
	if !strings.Contains(md, "No transactions.") {
		t.Errorf("empty log should say so:\n%s", md)
	}
}

func TestHoldings(t *testing.T) {
	bank := brokerage.NewBank()
	id := bank.Open("retirement", brokerage.Investment)
	bank.Deposit(brokerage.Investment, id, brokerage.M(100), "")
	bank.Purchase(id, "AAPL", brokerage.M(10), brokerage.Q(2))
	bank.Purchase(id, "MSFT", brokerage.M(20), brokerage.Q(1))
	acc, err := bank.Investment(id)
	if err != nil {
		t.Fatal(err)
	}

	md := Holdings(acc, map[string]brokerage.Money{"AAPL": brokerage.M(15)})

	if !strings.Contains(md, "# retirement") {
		t.Errorf("missing nickname title:\n%s", md)
	}
	if !strings.Contains(md, "Cash balance: $60.00") {
		t.Errorf("missing cash balance:\n%s", md)
	}
	// AAPL has a market value (2 x 15), MSFT's value column stays empty.
	if !strings.Contains(md, "| AAPL | 2 | $10.00 | $20.00 | $30.00 |") {
		t.Errorf("missing AAPL row:\n%s", md)
	}
	if !strings.Contains(md, "| MSFT | 1 | $20.00 | $20.00 |  |") {
		t.Errorf("missing MSFT row without value:\n%s", md)
	}

	_, rows := mdStructure(t, md)
	if rows != 2 {
		t.Errorf("got %d table rows, want 2:\n%s", rows, md)
	}
}

func TestHoldings_NoPositions(t *testing.T) {
	bank := brokerage.NewBank()
	id := bank.Open("", brokerage.Investment)
	acc, err := bank.Investment(id)
	if err != nil {
		t.Fatal(err)
	}
	md := Holdings(acc, nil)
	if !strings.Contains(md, "# Account 1") {
		t.Errorf("missing fallback title:\n%s", md)
	}
	if !strings.Contains(md, "No open positions.") {
		t.Errorf("empty account should say so:\n%s", md)
	}
}

func TestAccounts(t *testing.T) {
	bank := brokerage.NewBank()
	bank.Open("day to day", brokerage.Checking)
	id := bank.Open("retirement", brokerage.Investment)
	bank.Deposit(brokerage.Investment, id, brokerage.M(100), "")
	bank.Purchase(id, "AAPL", brokerage.M(10), brokerage.Q(2))

	md := Accounts(bank)

	headings, rows := mdStructure(t, md)
	if headings != 3 {
		t.Errorf("got %d headings, want title plus two sections:\n%s", headings, md)
	}
	if rows != 2 {
		t.Errorf("got %d table rows, want 2:\n%s", rows, md)
	}
	if !strings.Contains(md, "| 1 | day to day | $0.00 |") {
		t.Errorf("missing checking row:\n%s", md)
	}
	if !strings.Contains(md, "| 1 | retirement | $80.00 | 1 |") {
		t.Errorf("missing investment row:\n%s", md)
	}
}

func TestTickers(t *testing.T) {
	md := Tickers([]brokerage.TickerInfo{
		{Symbol: "AAPL", Name: "Apple Inc", MarketOpen: "09:30", MarketClose: "16:00", Timezone: "UTC-04"},
	})
	if !strings.Contains(md, "| AAPL | Apple Inc | 09:30 | 16:00 | UTC-04 |") {
		t.Errorf("missing match row:\n%s", md)
	}
	if md := Tickers(nil); !strings.Contains(md, "No matches.") {
		t.Errorf("empty result should say so:\n%s", md)
	}
}
