package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang-stock-dashboard/internal/dashboard/config"
	"golang-stock-dashboard/internal/dashboard/service"
	"golang-stock-dashboard/internal/entity"
	"golang-stock-dashboard/pkg/logger"
	"golang-stock-dashboard/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend answers every call immediately.
type stubBackend struct{}

func (stubBackend) GetTrending(ctx context.Context) ([]entity.TrendingEntry, error) {
	return []entity.TrendingEntry{{Symbol: "AAPL", Name: "Apple Inc.", Price: 190.123, Change: 1.5, ChangePercent: 0.79}}, nil
}

func (stubBackend) GetSeries(ctx context.Context, symbol entity.Symbol) (*entity.SeriesSnapshot, error) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &entity.SeriesSnapshot{Symbol: symbol, Points: []entity.PricePoint{
		{Date: start, Open: 99, High: 101, Low: 98, Close: 100, Volume: 1000},
		{Date: start.AddDate(0, 0, 1), Open: 100, High: 111, Low: 100, Close: 110, Volume: 1200, SMA20: utils.ToPointer(101.456)},
	}}, nil
}

func (stubBackend) Analyze(ctx context.Context, symbol entity.Symbol) (*entity.AnalysisResult, error) {
	return &entity.AnalysisResult{Symbol: symbol, RiskLevel: entity.RiskMedium, ConfidenceScore: 70, Analysis: "steady"}, nil
}

func (stubBackend) Chat(ctx context.Context, symbol entity.Symbol, query string) (*entity.ChatResult, error) {
	return &entity.ChatResult{Symbol: symbol, Query: query, Analysis: "answer"}, nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	cfg := &config.Config{Session: config.Session{
		DefaultSymbol:         "RELIANCE.NS",
		Presets:               []string{"RELIANCE.NS", "TCS.NS"},
		DefaultExchangeSuffix: ".NS",
		NoticeTTL:             time.Minute,
	}}
	log := logger.NewNop()
	session := service.NewSession(cfg, log, stubBackend{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = session.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return NewRouter(session, log)
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func getSession(t *testing.T, e *echo.Echo) SessionResponse {
	t.Helper()
	rec := do(t, e, http.MethodGet, "/api/v1/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func waitSession(t *testing.T, e *echo.Echo, cond func(SessionResponse) bool) SessionResponse {
	t.Helper()
	var last SessionResponse
	require.Eventually(t, func() bool {
		last = getSession(t, e)
		return cond(last)
	}, 2*time.Second, 5*time.Millisecond)
	return last
}

func TestGetSession(t *testing.T) {
	e := newTestServer(t)

	resp := waitSession(t, e, func(r SessionResponse) bool {
		return r.SeriesStatus == "ready" && len(r.Trending) == 1
	})
	assert.Equal(t, "RELIANCE.NS", resp.Symbol)
	assert.Equal(t, "110", resp.Metrics.CurrentPrice.String())
	assert.Equal(t, "10", resp.Metrics.PriceChange.String())
	assert.Equal(t, "9.09", resp.Metrics.PriceChangePercent.String())
	require.Len(t, resp.Series, 2)
	assert.Equal(t, "2024-03-02", resp.Series[1].Date)
	require.NotNil(t, resp.Series[1].SMA20)
	assert.Equal(t, "101.46", resp.Series[1].SMA20.String())
	assert.Nil(t, resp.Series[0].SMA20)
	assert.Equal(t, "190.12", resp.Trending[0].Price.String())
	assert.Equal(t, "analysis", resp.Tab)
	assert.True(t, resp.Pending)

	rec := do(t, e, http.MethodGet, "/api/v1/session?points=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tail SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tail))
	assert.Len(t, tail.Series, 1)

	rec = do(t, e, http.MethodGet, "/api/v1/session?points=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectSymbol(t *testing.T) {
	e := newTestServer(t)
	waitSession(t, e, func(r SessionResponse) bool { return r.SeriesStatus == "ready" })

	rec := do(t, e, http.MethodPost, "/api/v1/session/symbol", `{"raw":" wipro "}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "WIPRO.NS")
	waitSession(t, e, func(r SessionResponse) bool { return r.Symbol == "WIPRO.NS" && r.SeriesStatus == "ready" })

	rec = do(t, e, http.MethodPost, "/api/v1/session/symbol", `{"symbol":"tcs.ns"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	waitSession(t, e, func(r SessionResponse) bool { return r.Symbol == "TCS.NS" })

	rec = do(t, e, http.MethodPost, "/api/v1/session/symbol", `{"symbol":"WIPRO.NS"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/session/symbol", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectSymbol_BlankInputRaisesNotice(t *testing.T) {
	e := newTestServer(t)
	waitSession(t, e, func(r SessionResponse) bool { return r.SeriesStatus == "ready" })

	rec := do(t, e, http.MethodPost, "/api/v1/session/symbol", `{"raw":"   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := waitSession(t, e, func(r SessionResponse) bool { return len(r.Notices) == 1 })
	assert.Equal(t, "RELIANCE.NS", resp.Symbol)
	assert.Equal(t, "validation", resp.Notices[0].Kind)

	rec = do(t, e, http.MethodDelete, "/api/v1/session/notices/"+resp.Notices[0].ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	waitSession(t, e, func(r SessionResponse) bool { return len(r.Notices) == 0 })

	rec = do(t, e, http.MethodDelete, "/api/v1/session/notices/"+resp.Notices[0].ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeAndChat(t *testing.T) {
	e := newTestServer(t)
	waitSession(t, e, func(r SessionResponse) bool { return r.SeriesStatus == "ready" })

	rec := do(t, e, http.MethodPost, "/api/v1/session/analyze", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	resp := waitSession(t, e, func(r SessionResponse) bool { return r.Analysis != nil })
	assert.Equal(t, "medium", resp.Analysis.RiskLevel)
	assert.False(t, resp.Pending)

	rec = do(t, e, http.MethodPost, "/api/v1/session/chat", `{"query":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/session/chat", `{"query":"outlook?"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	resp = waitSession(t, e, func(r SessionResponse) bool { return r.Chat != nil })
	assert.Equal(t, "outlook?", resp.Chat.Query)
}

func TestSelectTab(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodPut, "/api/v1/session/tab", `{"tab":"trending"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	waitSession(t, e, func(r SessionResponse) bool { return r.Tab == "trending" })

	rec = do(t, e, http.MethodPut, "/api/v1/session/tab", `{"tab":"news"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPut, "/api/v1/session/tab", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshEndpoints(t *testing.T) {
	e := newTestServer(t)
	waitSession(t, e, func(r SessionResponse) bool { return r.SeriesStatus == "ready" })

	rec := do(t, e, http.MethodPost, "/api/v1/session/series/refresh", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/session/trending/refresh", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/session/presets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["RELIANCE.NS","TCS.NS"]`, rec.Body.String())
}

func TestSwaggerDocServed(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/session/notices/{id}")
}
