// Package store defines the persistence contracts for users, profiles,
// teams and tasks, the errors they return, and transaction helpers shared
// by the implementations in internal/platform/postgres.
package store
