// Package graphtest provides an in-memory graph.SessionProvider for tests.
//
// Queries are answered by handlers registered against a Cypher fragment.
// Write statements are staged per transaction and only appear in Committed
// once the unit of work succeeds; write statements in a read transaction are
// rejected, mirroring the store's access-mode enforcement.
package graphtest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/saveplate/backend/internal/infrastructure/graph"
)

// ErrWriteInReadMode is returned when a write statement runs in a read transaction.
var ErrWriteInReadMode = errors.New("writing in read access mode not allowed")

var writeClause = regexp.MustCompile(`(?i)\b(CREATE|MERGE|SET|DELETE|REMOVE)\b`)

// IsWrite reports whether the statement contains a write clause.
func IsWrite(cypher string) bool {
	return writeClause.MatchString(cypher)
}

// Query is one statement seen by the fake.
type Query struct {
	Cypher string
	Params map[string]any
	Mode   graph.AccessMode
}

// Handler answers a query.
type Handler func(q Query) ([]*graph.Record, error)

type route struct {
	fragment string
	handler  Handler
}

// Provider is a scripted graph.SessionProvider.
type Provider struct {
	mu        sync.Mutex
	routes    []route
	sessions  []*Session
	executed  []Query
	committed []Query
	err       error
}

// NewProvider returns a provider with no routes; unmatched queries return no rows.
func NewProvider() *Provider {
	return &Provider{}
}

// On registers h for queries containing fragment. Earlier registrations win.
func (p *Provider) On(fragment string, h Handler) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes = append(p.routes, route{fragment: fragment, handler: h})
	return p
}

// OnRows answers queries containing fragment with fixed records.
func (p *Provider) OnRows(fragment string, records ...*graph.Record) *Provider {
	return p.On(fragment, func(Query) ([]*graph.Record, error) {
		return records, nil
	})
}

// OnError fails queries containing fragment with err.
func (p *Provider) OnError(fragment string, err error) *Provider {
	return p.On(fragment, func(Query) ([]*graph.Record, error) {
		return nil, err
	})
}

// FailSessions makes every subsequent Session call return err.
func (p *Provider) FailSessions(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Session implements graph.SessionProvider.
func (p *Provider) Session(_ context.Context, mode graph.AccessMode) (graph.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	s := &Session{provider: p, mode: mode}
	p.sessions = append(p.sessions, s)
	return s, nil
}

// Sessions returns every session handed out so far.
func (p *Provider) Sessions() []*Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Session(nil), p.sessions...)
}

// OpenSessions counts sessions that were never closed.
func (p *Provider) OpenSessions() int {
	open := 0
	for _, s := range p.Sessions() {
		if s.Closes() == 0 {
			open++
		}
	}
	return open
}

// Executed returns every statement run, including those later rolled back.
func (p *Provider) Executed() []Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Query(nil), p.executed...)
}

// Committed returns the write statements of successful write transactions.
func (p *Provider) Committed() []Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Query(nil), p.committed...)
}

func (p *Provider) run(q Query) ([]*graph.Record, error) {
	p.mu.Lock()
	p.executed = append(p.executed, q)
	var h Handler
	for _, r := range p.routes {
		if strings.Contains(q.Cypher, r.fragment) {
			h = r.handler
			break
		}
	}
	p.mu.Unlock()

	if h == nil {
		return nil, nil
	}
	return h(q)
}

func (p *Provider) commit(staged []Query) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.committed = append(p.committed, staged...)
}

// Session is a fake graph.Session that counts its closes.
type Session struct {
	provider *Provider
	mode     graph.AccessMode

	mu     sync.Mutex
	closes int
	txs    []graph.AccessMode
}

// Mode is the access mode the session was opened with.
func (s *Session) Mode() graph.AccessMode { return s.mode }

// Closes is the number of times Close was called.
func (s *Session) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// Transactions lists the modes of the transactions run on the session.
func (s *Session) Transactions() []graph.AccessMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]graph.AccessMode(nil), s.txs...)
}

func (s *Session) ExecuteRead(ctx context.Context, work graph.TxWork) (any, error) {
	return s.execute(ctx, graph.Read, work)
}

func (s *Session) ExecuteWrite(ctx context.Context, work graph.TxWork) (any, error) {
	return s.execute(ctx, graph.Write, work)
}

func (s *Session) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *Session) execute(ctx context.Context, mode graph.AccessMode, work graph.TxWork) (any, error) {
	s.mu.Lock()
	closed := s.closes > 0
	s.txs = append(s.txs, mode)
	s.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("graphtest: session used after close")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx := &Tx{provider: s.provider, mode: mode}
	out, err := work(tx)
	if err != nil {
		return nil, err
	}
	if mode == graph.Write {
		s.provider.commit(tx.staged)
	}
	return out, nil
}

// Tx is a fake graph.Tx.
type Tx struct {
	provider *Provider
	mode     graph.AccessMode
	staged   []Query
}

func (t *Tx) Collect(ctx context.Context, cypher string, params map[string]any) ([]*graph.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := Query{Cypher: cypher, Params: params, Mode: t.mode}
	if IsWrite(cypher) {
		if t.mode != graph.Write {
			return nil, ErrWriteInReadMode
		}
		t.staged = append(t.staged, q)
	}
	return t.provider.run(q)
}

func (t *Tx) Single(ctx context.Context, cypher string, params map[string]any) (*graph.Record, error) {
	records, err := t.Collect(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	switch len(records) {
	case 0:
		return nil, nil
	case 1:
		return records[0], nil
	default:
		return nil, fmt.Errorf("%w: got %d", graph.ErrMultipleRecords, len(records))
	}
}

// Row builds a record from alternating keys and values:
//
//	graphtest.Row("food", "Salad", "recipe", "Greek salad")
func Row(kv ...any) *graph.Record {
	if len(kv)%2 != 0 {
		panic("graphtest.Row: odd number of arguments")
	}
	rec := &graph.Record{}
	for i := 0; i < len(kv); i += 2 {
		rec.Keys = append(rec.Keys, kv[i].(string))
		rec.Values = append(rec.Values, kv[i+1])
	}
	return rec
}

// List converts strings to the []any shape the driver returns for lists.
func List(items ...string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
