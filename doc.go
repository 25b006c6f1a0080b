// Package brokerage implements the ledger and reconciliation engine of a
// simulated personal brokerage. It is designed to be local-first and
// auditable: every balance-affecting event is recorded in an append-only
// transaction log, and all state can be persisted to a single human-readable
// JSON document.
//
// The core functionalities include:
//   - Account Management: checking and investment accounts owned by a Bank
//     registry, with deposits, withdrawals and zero-balance account closure.
//   - Trading: purchases and sales of securities against externally fetched
//     prices, with a running average cost basis per holding.
//   - Market Data: an abstract PriceProvider capability, a concrete
//     Alpha Vantage client, and a TTL disk cache that keeps slow provider
//     round-trips off the trading path.
//   - Dividend Reconciliation: a sweep that credits dividend income to
//     investment accounts exactly once per asset and payment date.
//
// This package serves as the foundational logic for the `bkr` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package brokerage
