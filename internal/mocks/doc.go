// Package mocks provides hand-written mocks shared by the HTTP and command
// tests.
//
// Each mock has one function field per interface method. A nil field falls
// back to the mock's default values, so tests only set what they exercise:
//
//	tasks := &mocks.MockTaskService{
//	    ClaimFn: func(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
//	        return nil, domain.ErrPermissionDenied
//	    },
//	}
//
// Packages that test against their own unexported interfaces keep their
// mocks next to the tests instead.
package mocks
