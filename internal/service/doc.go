// Package service contains the application use cases: accounts, profile
// selection and the task lifecycle. It orchestrates domain objects and the
// store interfaces (internal/store) and never depends on a concrete storage
// implementation.
//
// Services receive their dependencies through constructor injection and
// apply transactional boundaries with store.RunInTransaction whenever an
// operation reads and writes, or writes to more than one store.
//
// Errors are returned as sentinels from domain, store and auth, wrapped with
// context. The API layer maps them to HTTP responses; domain.ErrPermissionDenied
// in particular is a silent no-op for the caller, not a failure to report.
package service
