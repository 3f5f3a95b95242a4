package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang-stock-dashboard/internal/dashboard/config"
	"golang-stock-dashboard/internal/entity"
	"golang-stock-dashboard/pkg/logger"

	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

// backendCall is one request received by fakeBackend. The test answers it
// through respond; until then the caller blocks.
type backendCall struct {
	ctx    context.Context
	op     entity.Operation
	symbol entity.Symbol
	query  string
	reply  chan backendReply
}

type backendReply struct {
	series   *entity.SeriesSnapshot
	analysis *entity.AnalysisResult
	chat     *entity.ChatResult
	trending []entity.TrendingEntry
	err      error
}

func (c *backendCall) respond(r backendReply) {
	c.reply <- r
}

func (c *backendCall) fail(statusCode int) {
	c.reply <- backendReply{err: &entity.FetchError{Op: c.op, Symbol: c.symbol, StatusCode: statusCode}}
}

// fakeBackend implements repository.BackendRepository with test-controlled completion order.
type fakeBackend struct {
	// ignoreCancel makes calls wait for a reply even after their context is cancelled,
	// like a transport that cannot abort.
	ignoreCancel bool

	mu     sync.Mutex
	calls  map[entity.Operation]chan *backendCall
	counts map[entity.Operation]int
}

func newFakeBackend() *fakeBackend {
	f := &fakeBackend{
		calls:  make(map[entity.Operation]chan *backendCall),
		counts: make(map[entity.Operation]int),
	}
	for _, op := range []entity.Operation{entity.OpSeries, entity.OpAnalyze, entity.OpChat, entity.OpTrending} {
		f.calls[op] = make(chan *backendCall, 16)
	}
	return f
}

func (f *fakeBackend) do(ctx context.Context, op entity.Operation, symbol entity.Symbol, query string) backendReply {
	c := &backendCall{ctx: ctx, op: op, symbol: symbol, query: query, reply: make(chan backendReply, 1)}
	f.mu.Lock()
	f.counts[op]++
	f.mu.Unlock()
	f.calls[op] <- c

	if f.ignoreCancel {
		return <-c.reply
	}
	select {
	case r := <-c.reply:
		return r
	case <-ctx.Done():
		return backendReply{err: &entity.FetchError{Op: op, Symbol: symbol, Err: ctx.Err()}}
	}
}

func (f *fakeBackend) GetTrending(ctx context.Context) ([]entity.TrendingEntry, error) {
	r := f.do(ctx, entity.OpTrending, "", "")
	return r.trending, r.err
}

func (f *fakeBackend) GetSeries(ctx context.Context, symbol entity.Symbol) (*entity.SeriesSnapshot, error) {
	r := f.do(ctx, entity.OpSeries, symbol, "")
	return r.series, r.err
}

func (f *fakeBackend) Analyze(ctx context.Context, symbol entity.Symbol) (*entity.AnalysisResult, error) {
	r := f.do(ctx, entity.OpAnalyze, symbol, "")
	return r.analysis, r.err
}

func (f *fakeBackend) Chat(ctx context.Context, symbol entity.Symbol, query string) (*entity.ChatResult, error) {
	r := f.do(ctx, entity.OpChat, symbol, query)
	return r.chat, r.err
}

func (f *fakeBackend) count(op entity.Operation) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[op]
}

// expect waits for the next call of op.
func (f *fakeBackend) expect(t *testing.T, op entity.Operation) *backendCall {
	t.Helper()
	select {
	case c := <-f.calls[op]:
		return c
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for %s call", op)
		return nil
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Session: config.Session{
			DefaultSymbol:         "RELIANCE.NS",
			Presets:               []string{"RELIANCE.NS", "TCS.NS", "infy"},
			DefaultExchangeSuffix: ".NS",
			NoticeTTL:             time.Minute,
		},
	}
}

// startSession runs a session against a fake backend until the test ends.
func startSession(t *testing.T, backend *fakeBackend) *Session {
	t.Helper()
	session := NewSession(testConfig(), logger.NewNop(), backend)
	runSession(t, session)
	return session
}

// runSession starts session.Run and returns a function that stops it and
// waits for Run to return. The session is also stopped when the test ends.
func runSession(t *testing.T, session *Session) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			select {
			case <-done:
			case <-time.After(waitTimeout):
				t.Error("session did not stop")
			}
		})
	}
	t.Cleanup(stop)
	return stop
}

// recorder is a subscriber that keeps the last published state.
type recorder struct {
	mu    sync.Mutex
	last  State
	count int
}

func (r *recorder) record(st State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = st
	r.count++
}

func (r *recorder) snapshot() (State, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.count
}

func currentState(t *testing.T, s *Session) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	st, err := s.Store.State(ctx)
	require.NoError(t, err)
	return st
}

// waitFor polls the store until cond holds.
func waitFor(t *testing.T, s *Session, cond func(State) bool, msg string) State {
	t.Helper()
	var last State
	require.Eventually(t, func() bool {
		last = currentState(t, s)
		return cond(last)
	}, waitTimeout, 5*time.Millisecond, msg)
	return last
}

// settleLoop makes sure every update queued so far has been applied.
func settleLoop(t *testing.T, s *Session) State {
	t.Helper()
	return currentState(t, s)
}

func series(symbol entity.Symbol, closeValues ...float64) *entity.SeriesSnapshot {
	points := make([]entity.PricePoint, len(closeValues))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range closeValues {
		points[i] = entity.PricePoint{Date: start.AddDate(0, 0, i), Close: v, Open: v, High: v, Low: v}
	}
	return &entity.SeriesSnapshot{Symbol: symbol, Points: points}
}

func analysis(symbol entity.Symbol, text string) *entity.AnalysisResult {
	return &entity.AnalysisResult{
		Symbol:          symbol,
		RiskLevel:       entity.RiskLow,
		ConfidenceScore: 80,
		Analysis:        text,
		Recommendations: []string{"hold"},
	}
}

func chatResult(symbol entity.Symbol, query, text string) *entity.ChatResult {
	return &entity.ChatResult{Symbol: symbol, Query: query, Analysis: text}
}

func hasNotice(st State, kind NoticeKind, op entity.Operation) bool {
	for _, n := range st.Notices {
		if n.Kind == kind && n.Op == op {
			return true
		}
	}
	return false
}
