package service

import (
	"testing"

	"golang-stock-dashboard/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTab(t *testing.T) {
	tab, err := ParseTab(" Chat ")
	require.NoError(t, err)
	assert.Equal(t, TabChat, tab)

	_, err = ParseTab("portfolio")
	assert.True(t, entity.IsValidation(err))
}

func TestSelectTab_SurvivesSymbolChange(t *testing.T) {
	backend := newFakeBackend()
	s := bootSession(t, backend)

	require.NoError(t, s.View.SelectTab("trending"))
	waitFor(t, s, func(st State) bool { return st.Tab == TabTrending }, "tab switched")

	require.NoError(t, s.Selector.SelectPreset("TCS.NS"))
	st := waitFor(t, s, func(st State) bool { return st.Symbol == "TCS.NS" }, "symbol switched")
	assert.Equal(t, TabTrending, st.Tab)
}

func TestSelectTab_Unknown(t *testing.T) {
	backend := newFakeBackend()
	s := bootSession(t, backend)

	err := s.View.SelectTab("news")
	require.Error(t, err)

	st := waitFor(t, s, func(st State) bool { return len(st.Notices) == 1 }, "validation notice")
	assert.Equal(t, TabAnalysis, st.Tab)
}

func TestPending(t *testing.T) {
	st := State{Tab: TabAnalysis}
	assert.True(t, Pending(st))

	st.Loading.Analysis = true
	assert.False(t, Pending(st))

	st = State{Tab: TabChat, Chat: &entity.ChatResult{}}
	assert.False(t, Pending(st))

	st = State{Tab: TabTrending}
	assert.False(t, Pending(st))
}

func TestInvalidate(t *testing.T) {
	v := &ViewStateManager{}
	st := State{
		Tab:      TabChat,
		Analysis: &entity.AnalysisResult{},
		Chat:     &entity.ChatResult{},
		Loading:  Loading{Analysis: true, Chat: true, Series: true, Trending: true},
	}
	v.Invalidate(&st)

	assert.Nil(t, st.Analysis)
	assert.Nil(t, st.Chat)
	assert.Equal(t, Loading{Series: true, Trending: true}, st.Loading)
	assert.Equal(t, TabChat, st.Tab)
}
