package service

import (
	"context"
	"strings"

	"golang-stock-dashboard/internal/dashboard/repository"
	"golang-stock-dashboard/internal/entity"
	"golang-stock-dashboard/pkg/logger"
	"golang-stock-dashboard/pkg/utils"
)

type requestKind string

const (
	kindSeries   requestKind = "series"
	kindAnalysis requestKind = "analysis"
	kindChat     requestKind = "chat"
	kindTrending requestKind = "trending"
)

// stamp identifies an issued request: the symbol and query it targets plus a
// per-kind sequence number so that a newer request of the same kind wins.
type stamp struct {
	kind   requestKind
	symbol entity.Symbol
	query  string
	seq    uint64
}

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

// DataFetchCoordinator issues backend requests and commits their results only
// when they still match the active selection. Everything except the exported
// entry points runs on the store loop.
type DataFetchCoordinator struct {
	log     *logger.Logger
	repo    repository.BackendRepository
	store   *Store
	surface *ErrorSurface

	// baseCtx parents every request; stopAll cancels whatever is still in flight.
	baseCtx context.Context
	stopAll context.CancelFunc

	// loop-owned
	seq      uint64
	inflight map[requestKind]inflight
}

func NewDataFetchCoordinator(log *logger.Logger, repo repository.BackendRepository, store *Store, surface *ErrorSurface) *DataFetchCoordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &DataFetchCoordinator{
		log:      log,
		repo:     repo,
		store:    store,
		surface:  surface,
		baseCtx:  ctx,
		stopAll:  cancel,
		inflight: make(map[requestKind]inflight),
	}
}

// stop cancels every in-flight request. Called once the store loop has exited.
func (c *DataFetchCoordinator) stop() {
	c.stopAll()
}

// FetchSeries loads the price series of symbol if it is still the active symbol.
func (c *DataFetchCoordinator) FetchSeries(symbol entity.Symbol) {
	c.store.Dispatch(func(st *State) {
		if symbol != st.Symbol {
			c.log.Debug("Skipping series fetch for inactive symbol", logger.StringField("symbol", symbol.String()))
			return
		}
		c.startSeries(st)
	})
}

// RefreshSeries reloads the series of the active symbol.
func (c *DataFetchCoordinator) RefreshSeries() {
	c.store.Dispatch(func(st *State) {
		if st.Symbol.IsZero() {
			return
		}
		c.startSeries(st)
	})
}

// Analyze requests an AI analysis of symbol. A symbol that is no longer
// active is rejected with a notice.
func (c *DataFetchCoordinator) Analyze(symbol entity.Symbol) {
	c.store.Dispatch(func(st *State) {
		c.analyze(st, symbol)
	})
}

// AnalyzeActive requests an AI analysis of whatever symbol is active when the
// request reaches the loop.
func (c *DataFetchCoordinator) AnalyzeActive() {
	c.store.Dispatch(func(st *State) {
		c.analyze(st, st.Symbol)
	})
}

func (c *DataFetchCoordinator) analyze(st *State, symbol entity.Symbol) {
	if !c.accept(st, symbol, entity.OpAnalyze) {
		return
	}
	s := c.issue(kindAnalysis, symbol, "")
	st.Loading.Analysis = true
	c.run(s, func(ctx context.Context) func(*State) {
		result, err := c.repo.Analyze(ctx, symbol)
		return func(st *State) { c.commitAnalysis(st, s, result, err) }
	})
}

// Chat sends query about symbol. An empty query is rejected before any request.
func (c *DataFetchCoordinator) Chat(symbol entity.Symbol, query string) error {
	query, err := c.chatQuery(query)
	if err != nil {
		return err
	}
	c.store.Dispatch(func(st *State) {
		c.chat(st, symbol, query)
	})
	return nil
}

// ChatActive sends query about the symbol active when the request reaches the loop.
func (c *DataFetchCoordinator) ChatActive(query string) error {
	query, err := c.chatQuery(query)
	if err != nil {
		return err
	}
	c.store.Dispatch(func(st *State) {
		c.chat(st, st.Symbol, query)
	})
	return nil
}

func (c *DataFetchCoordinator) chatQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		err := &entity.ValidationError{Field: "query", Message: "question must not be empty"}
		c.store.Dispatch(func(*State) { c.surface.Report(err) })
		return "", err
	}
	return query, nil
}

func (c *DataFetchCoordinator) chat(st *State, symbol entity.Symbol, query string) {
	if !c.accept(st, symbol, entity.OpChat) {
		return
	}
	s := c.issue(kindChat, symbol, query)
	st.Loading.Chat = true
	c.run(s, func(ctx context.Context) func(*State) {
		result, err := c.repo.Chat(ctx, symbol, query)
		return func(st *State) { c.commitChat(st, s, result, err) }
	})
}

// accept reports whether a user request for symbol may be issued. A request
// for no symbol or for one that is no longer active raises a notice.
func (c *DataFetchCoordinator) accept(st *State, symbol entity.Symbol, op entity.Operation) bool {
	switch {
	case st.Symbol.IsZero():
		c.surface.Report(&entity.ValidationError{Field: "symbol", Message: "select a symbol first"})
	case symbol != st.Symbol:
		c.log.Debug("Rejecting request for inactive symbol",
			logger.StringField("op", string(op)),
			logger.StringField("symbol", symbol.String()),
			logger.StringField("active_symbol", st.Symbol.String()))
		c.surface.Report(&entity.ValidationError{
			Field:   "symbol",
			Message: symbol.String() + " is no longer the active symbol",
		})
	default:
		return true
	}
	return false
}

// Trending loads the market-wide trending feed. It shares no state with the
// symbol-scoped requests.
func (c *DataFetchCoordinator) Trending() {
	c.store.Dispatch(func(st *State) {
		s := c.issue(kindTrending, "", "")
		st.Loading.Trending = true
		c.run(s, func(ctx context.Context) func(*State) {
			entries, err := c.repo.GetTrending(ctx)
			return func(st *State) { c.commitTrending(st, s, entries, err) }
		})
	})
}

// activate switches the session to symbol: superseded symbol-scoped requests
// are cancelled and a series fetch is started. Runs on the loop.
func (c *DataFetchCoordinator) activate(st *State, symbol entity.Symbol) {
	c.cancel(kindSeries)
	c.cancel(kindAnalysis)
	c.cancel(kindChat)

	st.Symbol = symbol
	st.setSeries(nil, SeriesLoading)
	c.startSeries(st)
}

func (c *DataFetchCoordinator) startSeries(st *State) {
	symbol := st.Symbol
	s := c.issue(kindSeries, symbol, "")
	st.Loading.Series = true
	if st.Series == nil || st.Series.Symbol != symbol {
		st.setSeries(nil, SeriesLoading)
	} else {
		st.SeriesStatus = SeriesLoading
	}
	c.run(s, func(ctx context.Context) func(*State) {
		snapshot, err := c.repo.GetSeries(ctx, symbol)
		return func(st *State) { c.commitSeries(st, s, snapshot, err) }
	})
}

// issue cancels the in-flight request of the same kind and registers a new one.
func (c *DataFetchCoordinator) issue(kind requestKind, symbol entity.Symbol, query string) stamp {
	c.cancel(kind)
	c.seq++
	return stamp{kind: kind, symbol: symbol, query: query, seq: c.seq}
}

// run executes call off the loop and posts its commit back onto the loop.
func (c *DataFetchCoordinator) run(s stamp, call func(ctx context.Context) func(*State)) {
	ctx, cancel := context.WithCancel(logger.WithFields(c.baseCtx,
		logger.StringField("op", string(s.kind)),
		logger.StringField("symbol", s.symbol.String()),
		logger.Uint64Field("request_seq", s.seq)))
	c.inflight[s.kind] = inflight{seq: s.seq, cancel: cancel}

	utils.GoSafe(func() {
		commit := call(ctx)
		if !c.store.Dispatch(commit) {
			cancel()
		}
	})
}

func (c *DataFetchCoordinator) cancel(kind requestKind) {
	if f, ok := c.inflight[kind]; ok {
		f.cancel()
		delete(c.inflight, kind)
	}
}

// current reports whether s is the latest request of its kind and still
// targets the active symbol. A stale completion must not touch state.
func (c *DataFetchCoordinator) current(st *State, s stamp) bool {
	f, ok := c.inflight[s.kind]
	if !ok || f.seq != s.seq {
		return false
	}
	if s.kind != kindTrending && s.symbol != st.Symbol {
		return false
	}
	return true
}

// settle reports whether the completion of s may be committed and releases its slot.
func (c *DataFetchCoordinator) settle(st *State, s stamp) bool {
	if !c.current(st, s) {
		c.log.Debug("Dropping stale response",
			logger.StringField("op", string(s.kind)),
			logger.StringField("symbol", s.symbol.String()),
			logger.StringField("active_symbol", st.Symbol.String()),
			logger.Uint64Field("request_seq", s.seq))
		return false
	}
	c.cancel(s.kind)
	return true
}

func (c *DataFetchCoordinator) commitSeries(st *State, s stamp, snapshot *entity.SeriesSnapshot, err error) {
	if !c.settle(st, s) {
		return
	}
	st.Loading.Series = false
	if err != nil {
		prior := st.Series
		if prior != nil && prior.Symbol != st.Symbol {
			prior = nil
		}
		st.setSeries(prior, SeriesFailed)
		c.surface.Report(err)
		return
	}
	st.setSeries(snapshot, SeriesReady)
}

func (c *DataFetchCoordinator) commitAnalysis(st *State, s stamp, result *entity.AnalysisResult, err error) {
	if !c.settle(st, s) {
		return
	}
	st.Loading.Analysis = false
	if err != nil {
		c.surface.Report(err)
		return
	}
	st.Analysis = result
}

func (c *DataFetchCoordinator) commitChat(st *State, s stamp, result *entity.ChatResult, err error) {
	if !c.settle(st, s) {
		return
	}
	st.Loading.Chat = false
	if err != nil {
		c.surface.Report(err)
		return
	}
	st.Chat = result
}

func (c *DataFetchCoordinator) commitTrending(st *State, s stamp, entries []entity.TrendingEntry, err error) {
	if !c.settle(st, s) {
		return
	}
	st.Loading.Trending = false
	if err != nil {
		c.surface.Report(err)
		return
	}
	st.Trending = entries
}
