// Package postgres provides the PostgreSQL implementations of the store
// interfaces defined in internal/store, along with the embedded goose
// migrations that create their schema.
//
// Every store is built on store.DBTX so the same code runs against a
// *sql.DB or inside a *sql.Tx obtained from store.RunInTransaction.
package postgres
