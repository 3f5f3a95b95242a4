package service

import (
	"strings"

	"golang-stock-dashboard/internal/entity"
	"golang-stock-dashboard/pkg/logger"
)

type Tab string

const (
	TabAnalysis Tab = "analysis"
	TabChat     Tab = "chat"
	TabTrending Tab = "trending"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabAnalysis, TabChat, TabTrending}

func ParseTab(s string) (Tab, error) {
	tab := Tab(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range Tabs {
		if t == tab {
			return tab, nil
		}
	}
	return "", &entity.ValidationError{Field: "tab", Message: "unknown tab " + s}
}

// ViewStateManager tracks the visible tab. The tab only changes on explicit
// selection and survives symbol changes; symbol-scoped results do not.
type ViewStateManager struct {
	log     *logger.Logger
	store   *Store
	surface *ErrorSurface
}

func NewViewStateManager(log *logger.Logger, store *Store, surface *ErrorSurface) *ViewStateManager {
	return &ViewStateManager{log: log, store: store, surface: surface}
}

// SelectTab switches the visible tab.
func (v *ViewStateManager) SelectTab(name string) error {
	tab, err := ParseTab(name)
	if err != nil {
		v.store.Dispatch(func(*State) { v.surface.Report(err) })
		return err
	}
	v.store.Dispatch(func(st *State) {
		st.Tab = tab
	})
	return nil
}

// Invalidate drops the symbol-scoped results. Runs on the store loop.
func (v *ViewStateManager) Invalidate(st *State) {
	st.Analysis = nil
	st.Chat = nil
	st.Loading.Analysis = false
	st.Loading.Chat = false
}

// Pending reports whether the visible tab has content that still has to be
// requested on demand.
func Pending(st State) bool {
	switch st.Tab {
	case TabAnalysis:
		return st.Analysis == nil && !st.Loading.Analysis
	case TabChat:
		return st.Chat == nil && !st.Loading.Chat
	default:
		return false
	}
}
