// Package mocks provides centralized test doubles for the store, credential
// and event interfaces.
//
// Two flavours are available:
//
//   - In-memory fakes (MockUserStore, MockTaskStore) that honour uniqueness,
//     ownership and token-list semantics, with optional ...Fn fields to
//     override any single method.
//   - testify/mock based doubles (TestifyMockUserStore) for tests that assert
//     on exact calls.
//
// Usage:
//
//	users := mocks.NewMockUserStore()
//	users.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
//	    return nil, errors.New("db down")
//	}
package mocks
