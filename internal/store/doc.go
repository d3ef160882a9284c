// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, so services can run against Postgres in
// production and in-memory doubles in tests.
package store
