// Package types defines the Ledger and table interfaces, entity types, and
// standard errors for the lotledger record store.
//
// The three collections (vehicles, expenses, sales) persist as flat CSV
// tables; a backend implementation owns ID assignment, lookups, and
// rewrite-on-mutation persistence. Consumers depend on the interfaces in
// this package, never on a concrete backend.
package types
