package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/saveplate/backend/internal/logging"
	"github.com/saveplate/backend/internal/metrics"
)

var (
	// ErrNotInitialized is returned when a session is requested from a Manager
	// that was never initialized, or that has been closed.
	ErrNotInitialized = errors.New("graph driver is not initialized")
	// ErrAlreadyInitialized is returned by a second Initialize.
	ErrAlreadyInitialized = errors.New("graph driver is already initialized")
	// ErrInvalidMode is returned for an AccessMode other than Read or Write.
	ErrInvalidMode = errors.New("invalid transaction access mode")
	// ErrMultipleRecords is returned by Tx.Single when the query yields more than one row.
	ErrMultipleRecords = errors.New("expected at most one record")
)

// AccessMode is fixed at the call site and selects the driver's read or write path.
type AccessMode int

const (
	Read AccessMode = iota + 1
	Write
)

func (m AccessMode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return fmt.Sprintf("AccessMode(%d)", int(m))
	}
}

// Record is one row of a query result.
type Record = neo4j.Record

// Tx is the transaction handle injected into a unit of work.
type Tx interface {
	// Collect runs the query and returns all rows in result order.
	Collect(ctx context.Context, cypher string, params map[string]any) ([]*Record, error)
	// Single runs the query and returns its row, or nil if it produced none.
	Single(ctx context.Context, cypher string, params map[string]any) (*Record, error)
}

// TxWork is the driver-level callback a Session runs inside a transaction.
type TxWork func(tx Tx) (any, error)

// Session is a single-owner handle on a store connection.
type Session interface {
	ExecuteRead(ctx context.Context, work TxWork) (any, error)
	ExecuteWrite(ctx context.Context, work TxWork) (any, error)
	Close(ctx context.Context) error
}

// SessionProvider hands out sessions. *Manager is the production implementation.
type SessionProvider interface {
	Session(ctx context.Context, mode AccessMode) (Session, error)
}

// ExecuteInTransaction runs work inside a transaction of the given mode on a
// fresh session and returns its result.
//
// The session is closed on every exit path: success, error, panic and
// cancellation of ctx. Errors from work are returned unchanged; a write
// transaction is committed only when work returns a nil error.
func ExecuteInTransaction[R any](
	ctx context.Context,
	provider SessionProvider,
	mode AccessMode,
	work func(ctx context.Context, tx Tx) (R, error),
) (result R, err error) {
	if mode != Read && mode != Write {
		return result, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}

	start := time.Now()
	defer func() {
		metrics.TxDuration.WithLabelValues(mode.String()).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.TxErrors.WithLabelValues(mode.String()).Inc()
		}
	}()

	session, err := provider.Session(ctx, mode)
	if err != nil {
		return result, err
	}
	defer func() {
		// Detached so a cancelled request still releases its connection.
		if cerr := session.Close(context.WithoutCancel(ctx)); cerr != nil {
			logging.Ctx(ctx).Warn().Err(cerr).Str("mode", mode.String()).Msg("failed to close graph session")
		}
	}()

	execute := session.ExecuteRead
	if mode == Write {
		execute = session.ExecuteWrite
	}

	out, err := execute(ctx, func(tx Tx) (any, error) {
		return work(ctx, tx)
	})
	if err != nil {
		return result, err
	}

	result, _ = out.(R)
	return result, nil
}

// Transactional binds a unit of work to a provider and mode, returning a
// function without the Tx parameter. Each call runs in its own transaction.
func Transactional[A, R any](
	provider SessionProvider,
	mode AccessMode,
	work func(ctx context.Context, tx Tx, arg A) (R, error),
) func(ctx context.Context, arg A) (R, error) {
	return func(ctx context.Context, arg A) (R, error) {
		return ExecuteInTransaction(ctx, provider, mode, func(ctx context.Context, tx Tx) (R, error) {
			return work(ctx, tx, arg)
		})
	}
}
