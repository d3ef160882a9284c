package mocks

import (
	"context"

	"github.com/phrazzld/task-manager-api/internal/store"
)

// MockTxManager runs the unit of work directly with a nil transaction. The
// in-memory stores ignore the transaction in WithTx.
type MockTxManager struct {
	WithinTxFn func(ctx context.Context, fn store.TxFn) error

	// Calls counts WithinTx invocations.
	Calls int
}

var _ store.TxManager = (*MockTxManager)(nil)

// WithinTx implements store.TxManager.
func (m *MockTxManager) WithinTx(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return fn(ctx, nil)
}
