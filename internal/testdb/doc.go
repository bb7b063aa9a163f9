// Package testdb opens the integration test database and isolates each
// test in a transaction that is rolled back afterwards.
//
// Tests using it are skipped unless TEAMTASKS_TEST_DATABASE_URL is set:
//
//	TEAMTASKS_TEST_DATABASE_URL=postgres://localhost/teamtasks_test?sslmode=disable \
//	    go test -tags=integration ./...
package testdb
