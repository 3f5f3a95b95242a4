package service

import (
	"context"

	"golang-stock-dashboard/internal/dashboard/config"
	"golang-stock-dashboard/internal/dashboard/repository"
	"golang-stock-dashboard/internal/entity"
	"golang-stock-dashboard/pkg/logger"
)

// Session wires the client components around one Store.
type Session struct {
	Store       *Store
	Selector    *SymbolSelector
	Coordinator *DataFetchCoordinator
	View        *ViewStateManager
	Errors      *ErrorSurface

	log           *logger.Logger
	defaultSymbol entity.Symbol
}

// NewSession builds a session from configuration. Presets and the default
// symbol are canonicalized; invalid entries are skipped with a warning.
func NewSession(cfg *config.Config, log *logger.Logger, repo repository.BackendRepository) *Session {
	suffix := entity.NormalizeSuffix(cfg.Session.DefaultExchangeSuffix)

	presets := make([]entity.Symbol, 0, len(cfg.Session.Presets))
	seen := make(map[entity.Symbol]bool)
	for _, raw := range cfg.Session.Presets {
		symbol, err := entity.CanonicalizeSymbol(raw, suffix)
		if err != nil {
			log.Warn("Ignoring invalid preset", logger.StringField("preset", raw), logger.ErrorField(err))
			continue
		}
		if !seen[symbol] {
			seen[symbol] = true
			presets = append(presets, symbol)
		}
	}

	defaultSymbol, err := entity.CanonicalizeSymbol(cfg.Session.DefaultSymbol, suffix)
	if err != nil && len(presets) > 0 {
		defaultSymbol = presets[0]
	}

	store := NewStore(log, State{Tab: TabAnalysis, SeriesStatus: SeriesIdle})
	surface := NewErrorSurface(log, cfg.Session.NoticeTTL)
	store.decorate = func(st *State) {
		st.Notices = surface.Active()
	}
	// republish so subscribers stop showing an expired notice
	surface.onExpire = func() {
		store.Dispatch(func(*State) {})
	}
	view := NewViewStateManager(log, store, surface)
	coordinator := NewDataFetchCoordinator(log, repo, store, surface)
	selector := NewSymbolSelector(log, store, coordinator, view, surface, presets, suffix)

	return &Session{
		Store:         store,
		Selector:      selector,
		Coordinator:   coordinator,
		View:          view,
		Errors:        surface,
		log:           log,
		defaultSymbol: defaultSymbol,
	}
}

// Run starts the session: the default symbol is selected unless a symbol was
// chosen already, the trending feed is fetched once, and the store loop runs
// until ctx is cancelled. Requests still in flight are cancelled on return.
func (s *Session) Run(ctx context.Context) error {
	defer s.Coordinator.stop()
	if !s.defaultSymbol.IsZero() {
		s.Selector.activateDefault(s.defaultSymbol)
	}
	s.Coordinator.Trending()
	return s.Store.Run(ctx)
}

// DismissNotice removes a notice and republishes the state. The state is
// republished even for an unknown or expired id so that subscribers drop it.
func (s *Session) DismissNotice(id string) bool {
	ok := s.Errors.Dismiss(id)
	s.Store.Dispatch(func(*State) {})
	return ok
}
