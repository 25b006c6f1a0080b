package brokerage

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"
)

// This file implements the bank persistence format: a single JSON document
// with two top-level maps, checking_accounts and investment_accounts, keyed
// by stringified account ids. Field order is fixed so that
// serialize/deserialize/serialize round trips are byte-for-byte identical.

// MarshalJSON implements the json.Marshaler interface for CheckingAccount.
func (a CheckingAccount) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.id)
	w.Append("balance", a.balance)
	w.Optional("nickname", a.nickname)
	w.Append("created_at", a.createdAt.Format(time.RFC3339Nano))
	w.Append("transactions", a.transactions)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for CheckingAccount.
func (a *CheckingAccount) UnmarshalJSON(data []byte) error {
	acc, err := decodeAccount(data)
	if err != nil {
		return err
	}
	a.account = acc
	return nil
}

// MarshalJSON implements the json.Marshaler interface for InvestmentAccount.
// Asset symbols are emitted in sorted order.
func (a InvestmentAccount) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.id)
	w.Append("balance", a.balance)
	w.Optional("nickname", a.nickname)
	w.Append("created_at", a.createdAt.Format(time.RFC3339Nano))

	var assets jsonObjectWriter
	for _, symbol := range slices.Sorted(maps.Keys(a.assets)) {
		assets.Append(symbol, a.assets[symbol])
	}
	assetsJSON, err := assets.MarshalJSON()
	if err != nil {
		return nil, err
	}
	w.Append("assets", json.RawMessage(assetsJSON))
	w.Append("transactions", a.transactions)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for InvestmentAccount.
func (a *InvestmentAccount) UnmarshalJSON(data []byte) error {
	acc, err := decodeAccount(data)
	if err != nil {
		return err
	}
	var temp struct {
		Assets map[string]Holding `json:"assets"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	a.account = acc
	a.assets = temp.Assets
	if a.assets == nil {
		a.assets = make(map[string]Holding)
	}
	return nil
}

// decodeAccount decodes the fields shared by both account variants.
func decodeAccount(data []byte) (account, error) {
	var temp struct {
		ID           int           `json:"id"`
		Balance      Money         `json:"balance"`
		Nickname     string        `json:"nickname"`
		CreatedAt    string        `json:"created_at"`
		Transactions []Transaction `json:"transactions"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return account{}, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, temp.CreatedAt)
	if err != nil {
		return account{}, fmt.Errorf("invalid created_at: %w", err)
	}
	return account{
		id:           temp.ID,
		balance:      temp.Balance,
		nickname:     temp.Nickname,
		createdAt:    createdAt.UTC(),
		transactions: temp.Transactions,
	}, nil
}

// EncodeBank writes the whole bank state to w as a single JSON document.
func EncodeBank(w io.Writer, b *Bank) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var checking jsonObjectWriter
	for _, id := range sortedIDs(b.checking) {
		checking.Append(strconv.Itoa(id), b.checking[id])
	}
	var investment jsonObjectWriter
	for _, id := range sortedIDs(b.investment) {
		investment.Append(strconv.Itoa(id), b.investment[id])
	}

	checkingJSON, err := checking.MarshalJSON()
	if err != nil {
		return err
	}
	investmentJSON, err := investment.MarshalJSON()
	if err != nil {
		return err
	}

	var doc jsonObjectWriter
	doc.Append("checking_accounts", json.RawMessage(checkingJSON))
	doc.Append("investment_accounts", json.RawMessage(investmentJSON))
	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(append(docJSON, '\n')); err != nil {
		return fmt.Errorf("%w: writing bank document: %w", ErrPersistence, err)
	}
	return nil
}

// DecodeBank reads a bank state previously written by EncodeBank.
func DecodeBank(r io.Reader) (*Bank, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading bank document: %w", ErrPersistence, err)
	}
	var temp struct {
		Checking   map[string]*CheckingAccount   `json:"checking_accounts"`
		Investment map[string]*InvestmentAccount `json:"investment_accounts"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return nil, fmt.Errorf("%w: decoding bank document: %w", ErrPersistence, err)
	}
	bank := NewBank()
	for _, acc := range temp.Checking {
		bank.checking[acc.id] = acc
	}
	for _, acc := range temp.Investment {
		bank.investment[acc.id] = acc
	}
	return bank, nil
}

// SaveBank writes the bank to a file atomically: the document goes to a
// temporary file first and is then renamed over the target, so a crash mid
// write never corrupts the previous state.
func SaveBank(path string, b *Bank) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: creating bank directory: %w", ErrPersistence, err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", ErrPersistence, err)
	}
	if err := EncodeBank(f, b); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: closing temp file: %w", ErrPersistence, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replacing bank file: %w", ErrPersistence, err)
	}
	return nil
}

// LoadBank reads the bank from a file. The error wraps fs.ErrNotExist when
// the file is missing, so callers can start from an empty bank instead.
func LoadBank(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening bank file: %w", ErrPersistence, err)
	}
	defer f.Close()
	return DecodeBank(f)
}
