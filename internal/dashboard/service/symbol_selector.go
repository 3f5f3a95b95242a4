package service

import (
	"golang-stock-dashboard/internal/entity"
	"golang-stock-dashboard/pkg/logger"
)

// SymbolSelector resolves the active symbol from a preset or from free-text
// input and switches the session over to it.
type SymbolSelector struct {
	log         *logger.Logger
	store       *Store
	coordinator *DataFetchCoordinator
	view        *ViewStateManager
	surface     *ErrorSurface
	presets     []entity.Symbol
	suffix      string
}

func NewSymbolSelector(
	log *logger.Logger,
	store *Store,
	coordinator *DataFetchCoordinator,
	view *ViewStateManager,
	surface *ErrorSurface,
	presets []entity.Symbol,
	suffix string,
) *SymbolSelector {
	return &SymbolSelector{
		log:         log,
		store:       store,
		coordinator: coordinator,
		view:        view,
		surface:     surface,
		presets:     presets,
		suffix:      entity.NormalizeSuffix(suffix),
	}
}

// Presets returns the known symbols offered for quick selection.
func (s *SymbolSelector) Presets() []entity.Symbol {
	out := make([]entity.Symbol, len(s.presets))
	copy(out, s.presets)
	return out
}

// SelectPreset activates one of the preset symbols.
func (s *SymbolSelector) SelectPreset(symbol entity.Symbol) error {
	if !s.isPreset(symbol) {
		err := &entity.ValidationError{Field: "symbol", Message: symbol.String() + " is not a preset"}
		s.store.Dispatch(func(*State) { s.surface.Report(err) })
		return err
	}
	s.activate(symbol)
	return nil
}

// SubmitCustom canonicalizes free-text input and activates the result. Empty
// input is rejected without touching the session or the network.
func (s *SymbolSelector) SubmitCustom(raw string) (entity.Symbol, error) {
	symbol, err := entity.CanonicalizeSymbol(raw, s.suffix)
	if err != nil {
		s.store.Dispatch(func(*State) { s.surface.Report(err) })
		return "", err
	}
	s.activate(symbol)
	return symbol, nil
}

func (s *SymbolSelector) activate(symbol entity.Symbol) {
	s.log.Info("Switching active symbol", logger.StringField("symbol", symbol.String()))
	s.store.Dispatch(func(st *State) {
		s.switchTo(st, symbol)
	})
}

// activateDefault selects symbol only if nothing has been selected yet, so a
// selection made before the session starts is kept.
func (s *SymbolSelector) activateDefault(symbol entity.Symbol) {
	s.store.Dispatch(func(st *State) {
		if !st.Symbol.IsZero() {
			s.log.Debug("Keeping earlier selection over default symbol",
				logger.StringField("symbol", st.Symbol.String()),
				logger.StringField("default_symbol", symbol.String()))
			return
		}
		s.switchTo(st, symbol)
	})
}

func (s *SymbolSelector) switchTo(st *State, symbol entity.Symbol) {
	s.view.Invalidate(st)
	s.surface.Clear()
	s.coordinator.activate(st, symbol)
}

func (s *SymbolSelector) isPreset(symbol entity.Symbol) bool {
	for _, p := range s.presets {
		if p == symbol {
			return true
		}
	}
	return false
}
