package graph

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config holds the connection settings of a Manager
type Config struct {
	URL      string
	Username string
	Password string
	// Database defaults to "neo4j".
	Database string
	// MaxConnectionPoolSize and MaxTransactionRetryTime keep driver defaults when zero.
	MaxConnectionPoolSize   int
	MaxTransactionRetryTime time.Duration
}

type driverHandle struct {
	driver neo4j.DriverWithContext
}

// Manager owns the process-wide driver. The handle is written by Initialize
// and Close only; sessions read it concurrently.
type Manager struct {
	cfg    Config
	handle atomic.Pointer[driverHandle]
}

// NewManager creates an uninitialized manager.
func NewManager(cfg Config) *Manager {
	if cfg.Database == "" {
		cfg.Database = "neo4j"
	}
	return &Manager{cfg: cfg}
}

// Initialize creates the driver and verifies the store is reachable.
// The driver is discarded if verification fails.
func (m *Manager) Initialize(ctx context.Context) error {
	if m.handle.Load() != nil {
		return ErrAlreadyInitialized
	}

	driver, err := neo4j.NewDriverWithContext(
		m.cfg.URL,
		neo4j.BasicAuth(m.cfg.Username, m.cfg.Password, ""),
		func(c *neo4j.Config) {
			if m.cfg.MaxConnectionPoolSize > 0 {
				c.MaxConnectionPoolSize = m.cfg.MaxConnectionPoolSize
			}
			if m.cfg.MaxTransactionRetryTime > 0 {
				c.MaxTransactionRetryTime = m.cfg.MaxTransactionRetryTime
			}
		},
	)
	if err != nil {
		return fmt.Errorf("create graph driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(context.WithoutCancel(ctx))
		return fmt.Errorf("verify graph connectivity: %w", err)
	}

	if !m.handle.CompareAndSwap(nil, &driverHandle{driver: driver}) {
		_ = driver.Close(context.WithoutCancel(ctx))
		return ErrAlreadyInitialized
	}
	return nil
}

// Close releases the driver. Closing a manager that holds no driver is an error.
func (m *Manager) Close(ctx context.Context) error {
	h := m.handle.Swap(nil)
	if h == nil {
		return ErrNotInitialized
	}
	if err := h.driver.Close(ctx); err != nil {
		return fmt.Errorf("close graph driver: %w", err)
	}
	return nil
}

// Initialized reports whether the manager currently holds a driver.
func (m *Manager) Initialized() bool {
	return m.handle.Load() != nil
}

// Session opens a session routed for the given mode.
func (m *Manager) Session(ctx context.Context, mode AccessMode) (Session, error) {
	h := m.handle.Load()
	if h == nil {
		return nil, ErrNotInitialized
	}

	accessMode := neo4j.AccessModeRead
	if mode == Write {
		accessMode = neo4j.AccessModeWrite
	}

	session := h.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   accessMode,
		DatabaseName: m.cfg.Database,
	})
	return &driverSession{session: session}, nil
}

// driverSession adapts a driver session to Session.
type driverSession struct {
	session neo4j.SessionWithContext
}

func (s *driverSession) ExecuteRead(ctx context.Context, work TxWork) (any, error) {
	return s.session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(&managedTx{tx: tx})
	})
}

func (s *driverSession) ExecuteWrite(ctx context.Context, work TxWork) (any, error) {
	return s.session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(&managedTx{tx: tx})
	})
}

func (s *driverSession) Close(ctx context.Context) error {
	return s.session.Close(ctx)
}

type managedTx struct {
	tx neo4j.ManagedTransaction
}

func (t *managedTx) Collect(ctx context.Context, cypher string, params map[string]any) ([]*Record, error) {
	result, err := t.tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return result.Collect(ctx)
}

func (t *managedTx) Single(ctx context.Context, cypher string, params map[string]any) (*Record, error) {
	records, err := t.Collect(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return single(records)
}

func single(records []*Record) (*Record, error) {
	switch len(records) {
	case 0:
		return nil, nil
	case 1:
		return records[0], nil
	default:
		return nil, fmt.Errorf("%w: got %d", ErrMultipleRecords, len(records))
	}
}
