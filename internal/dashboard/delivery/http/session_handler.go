package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"golang-stock-dashboard/internal/dashboard/service"
	"golang-stock-dashboard/internal/entity"
	"golang-stock-dashboard/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to echo.
type RequestValidator struct {
	validator *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validator: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

// SessionHandler exposes the client session over HTTP.
type SessionHandler struct {
	session *service.Session
	logger  *logger.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(session *service.Session, logger *logger.Logger) *SessionHandler {
	return &SessionHandler{session: session, logger: logger}
}

// RegisterRoutes registers the session routes to the Echo group.
func (h *SessionHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetSession)
	g.GET("/presets", h.GetPresets)
	g.POST("/symbol", h.SelectSymbol)
	g.POST("/series/refresh", h.RefreshSeries)
	g.POST("/analyze", h.Analyze)
	g.POST("/chat", h.Chat)
	g.POST("/trending/refresh", h.RefreshTrending)
	g.PUT("/tab", h.SelectTab)
	g.DELETE("/notices/:id", h.DismissNotice)
}

// GetSession godoc
// @Summary Get the session state
// @Description Get the active symbol, its series and metrics, results, trending feed and notices
// @Tags session
// @Produce  json
// @Param   points  query   int false   "Number of most recent series points to include"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /session [get]
func (h *SessionHandler) GetSession(c echo.Context) error {
	points := 0
	if raw := c.QueryParam("points"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid points parameter"})
		}
		points = n
	}

	st, err := h.session.Store.State(c.Request().Context())
	if err != nil {
		return h.unavailable(c, err)
	}
	return c.JSON(http.StatusOK, NewSessionResponse(st, points))
}

// GetPresets godoc
// @Summary List preset symbols
// @Tags session
// @Produce  json
// @Success 200 {array} string
// @Router /session/presets [get]
func (h *SessionHandler) GetPresets(c echo.Context) error {
	presets := h.session.Selector.Presets()
	out := make([]string, len(presets))
	for i, p := range presets {
		out[i] = p.String()
	}
	return c.JSON(http.StatusOK, out)
}

// SelectSymbol godoc
// @Summary Select the active symbol
// @Description Select a preset with "symbol" or submit free text with "raw"
// @Tags session
// @Accept  json
// @Produce  json
// @Param   request  body    SelectSymbolRequest   true    "Symbol selection"
// @Success 202 {object} AcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Router /session/symbol [post]
func (h *SessionHandler) SelectSymbol(c echo.Context) error {
	var req SelectSymbolRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Either symbol or raw is required"})
	}

	if req.Symbol != "" {
		symbol := entity.Symbol(strings.ToUpper(strings.TrimSpace(req.Symbol)))
		if err := h.session.Selector.SelectPreset(symbol); err != nil {
			return h.reject(c, err)
		}
		return c.JSON(http.StatusAccepted, AcceptedResponse{Status: "loading", Symbol: symbol.String()})
	}

	symbol, err := h.session.Selector.SubmitCustom(req.Raw)
	if err != nil {
		return h.reject(c, err)
	}
	return c.JSON(http.StatusAccepted, AcceptedResponse{Status: "loading", Symbol: symbol.String()})
}

// RefreshSeries godoc
// @Summary Reload the price series of the active symbol
// @Tags session
// @Produce  json
// @Success 202 {object} AcceptedResponse
// @Failure 409 {object} ErrorResponse
// @Router /session/series/refresh [post]
func (h *SessionHandler) RefreshSeries(c echo.Context) error {
	return h.withActiveSymbol(c, func(symbol entity.Symbol) error {
		h.session.Coordinator.RefreshSeries()
		return c.JSON(http.StatusAccepted, AcceptedResponse{Status: "loading", Symbol: symbol.String()})
	})
}

// Analyze godoc
// @Summary Request an AI analysis of the active symbol
// @Tags session
// @Produce  json
// @Success 202 {object} AcceptedResponse
// @Failure 409 {object} ErrorResponse
// @Router /session/analyze [post]
func (h *SessionHandler) Analyze(c echo.Context) error {
	return h.withActiveSymbol(c, func(symbol entity.Symbol) error {
		h.session.Coordinator.AnalyzeActive()
		return c.JSON(http.StatusAccepted, AcceptedResponse{Status: "loading", Symbol: symbol.String()})
	})
}

// Chat godoc
// @Summary Ask a question about the active symbol
// @Tags session
// @Accept  json
// @Produce  json
// @Param   request  body    ChatRequest   true    "Question"
// @Success 202 {object} AcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /session/chat [post]
func (h *SessionHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
	}

	return h.withActiveSymbol(c, func(symbol entity.Symbol) error {
		if err := h.session.Coordinator.ChatActive(req.Query); err != nil {
			return h.reject(c, err)
		}
		return c.JSON(http.StatusAccepted, AcceptedResponse{Status: "loading", Symbol: symbol.String()})
	})
}

// RefreshTrending godoc
// @Summary Reload the trending feed
// @Tags session
// @Produce  json
// @Success 202 {object} AcceptedResponse
// @Router /session/trending/refresh [post]
func (h *SessionHandler) RefreshTrending(c echo.Context) error {
	h.session.Coordinator.Trending()
	return c.JSON(http.StatusAccepted, AcceptedResponse{Status: "loading"})
}

// SelectTab godoc
// @Summary Switch the visible tab
// @Tags session
// @Accept  json
// @Param   request  body    TabRequest   true    "Tab"
// @Success 204 {object} nil
// @Failure 400 {object} ErrorResponse
// @Router /session/tab [put]
func (h *SessionHandler) SelectTab(c echo.Context) error {
	var req TabRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if err := h.session.View.SelectTab(req.Tab); err != nil {
		return h.reject(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DismissNotice godoc
// @Summary Dismiss a notice
// @Tags session
// @Param   id  path    string true    "Notice ID"
// @Success 204 {object} nil
// @Failure 404 {object} ErrorResponse
// @Router /session/notices/{id} [delete]
func (h *SessionHandler) DismissNotice(c echo.Context) error {
	if !h.session.DismissNotice(c.Param("id")) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Notice not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// withActiveSymbol runs fn with the active symbol, answering 409 when none is selected.
func (h *SessionHandler) withActiveSymbol(c echo.Context, fn func(entity.Symbol) error) error {
	st, err := h.session.Store.State(c.Request().Context())
	if err != nil {
		return h.unavailable(c, err)
	}
	if st.Symbol.IsZero() {
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "No active symbol"})
	}
	return fn(st.Symbol)
}

func (h *SessionHandler) reject(c echo.Context, err error) error {
	if entity.IsValidation(err) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	h.logger.Error("Session request failed", logger.ErrorField(err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

func (h *SessionHandler) unavailable(c echo.Context, err error) error {
	if errors.Is(err, service.ErrStoreStopped) {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Session stopped"})
	}
	h.logger.Warn("Failed to read session state", logger.ErrorField(err))
	return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
}
