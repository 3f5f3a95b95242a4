package http

import (
	"time"

	"golang-stock-dashboard/internal/dashboard/service"
	"golang-stock-dashboard/internal/entity"
	"golang-stock-dashboard/pkg/common"
	"golang-stock-dashboard/pkg/utils"

	"github.com/shopspring/decimal"
)

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SelectSymbolRequest selects either a preset symbol or free-text input.
type SelectSymbolRequest struct {
	Symbol string `json:"symbol" validate:"required_without=Raw"`
	Raw    string `json:"raw" validate:"required_without=Symbol"`
}

// ChatRequest is a free-text question about the active symbol.
type ChatRequest struct {
	Query string `json:"query"`
}

// TabRequest switches the visible tab.
type TabRequest struct {
	Tab string `json:"tab" validate:"required"`
}

// AcceptedResponse acknowledges an asynchronous operation.
type AcceptedResponse struct {
	Status string `json:"status"`
	Symbol string `json:"symbol,omitempty"`
}

type MetricsResponse struct {
	CurrentPrice       decimal.Decimal `json:"current_price"`
	PriceChange        decimal.Decimal `json:"price_change"`
	PriceChangePercent decimal.Decimal `json:"price_change_percent"`
}

type PricePointResponse struct {
	Date   string           `json:"date"`
	Open   decimal.Decimal  `json:"open"`
	High   decimal.Decimal  `json:"high"`
	Low    decimal.Decimal  `json:"low"`
	Close  decimal.Decimal  `json:"close"`
	Volume int64            `json:"volume"`
	SMA20  *decimal.Decimal `json:"sma_20,omitempty"`
	SMA50  *decimal.Decimal `json:"sma_50,omitempty"`
	RSI    *decimal.Decimal `json:"rsi,omitempty"`
}

type AnalysisResponse struct {
	Symbol              string             `json:"symbol"`
	Timeframe           string             `json:"timeframe"`
	TechnicalIndicators map[string]float64 `json:"technical_indicators"`
	RiskLevel           string             `json:"risk_level"`
	ConfidenceScore     float64            `json:"confidence_score"`
	Recommendations     []string           `json:"recommendations"`
	Analysis            string             `json:"analysis"`
}

type ChatResponse struct {
	Symbol          string   `json:"symbol"`
	Query           string   `json:"query"`
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
}

type TrendingResponse struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
}

type LoadingResponse struct {
	Series   bool `json:"series"`
	Analysis bool `json:"analysis"`
	Chat     bool `json:"chat"`
	Trending bool `json:"trending"`
}

type NoticeResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Op        string    `json:"op,omitempty"`
	Symbol    string    `json:"symbol,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse is the full client session as seen by a headless consumer.
type SessionResponse struct {
	Symbol       string               `json:"symbol"`
	SeriesStatus string               `json:"series_status"`
	Metrics      MetricsResponse      `json:"metrics"`
	Series       []PricePointResponse `json:"series"`
	Analysis     *AnalysisResponse    `json:"analysis"`
	Chat         *ChatResponse        `json:"chat"`
	Trending     []TrendingResponse   `json:"trending"`
	Tab          string               `json:"tab"`
	Pending      bool                 `json:"pending"`
	Loading      LoadingResponse      `json:"loading"`
	Notices      []NoticeResponse     `json:"notices"`
}

func price(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func optionalPrice(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	return utils.ToPointer(price(*v))
}

// NewSessionResponse maps a state snapshot, keeping at most points of the
// most recent series points (all of them when points <= 0).
func NewSessionResponse(st service.State, points int) SessionResponse {
	resp := SessionResponse{
		Symbol:       st.Symbol.String(),
		SeriesStatus: string(st.SeriesStatus),
		Metrics: MetricsResponse{
			CurrentPrice:       price(st.Metrics.CurrentPrice),
			PriceChange:        price(st.Metrics.PriceChange),
			PriceChangePercent: price(st.Metrics.PriceChangePercent),
		},
		Series:   []PricePointResponse{},
		Trending: make([]TrendingResponse, 0, len(st.Trending)),
		Tab:      string(st.Tab),
		Pending:  service.Pending(st),
		Loading: LoadingResponse{
			Series:   st.Loading.Series,
			Analysis: st.Loading.Analysis,
			Chat:     st.Loading.Chat,
			Trending: st.Loading.Trending,
		},
		Notices: make([]NoticeResponse, 0, len(st.Notices)),
	}

	var tail []entity.PricePoint
	if points > 0 {
		tail = st.Series.Tail(points)
	} else if st.Series != nil {
		tail = st.Series.Points
	}
	for _, p := range tail {
		resp.Series = append(resp.Series, PricePointResponse{
			Date:   p.Date.Format(common.DateLayout),
			Open:   price(p.Open),
			High:   price(p.High),
			Low:    price(p.Low),
			Close:  price(p.Close),
			Volume: p.Volume,
			SMA20:  optionalPrice(p.SMA20),
			SMA50:  optionalPrice(p.SMA50),
			RSI:    optionalPrice(p.RSI),
		})
	}

	if a := st.Analysis; a != nil {
		resp.Analysis = &AnalysisResponse{
			Symbol:              a.Symbol.String(),
			Timeframe:           a.Timeframe,
			TechnicalIndicators: a.TechnicalIndicators,
			RiskLevel:           string(a.RiskLevel),
			ConfidenceScore:     a.ConfidenceScore,
			Recommendations:     a.Recommendations,
			Analysis:            a.Analysis,
		}
	}
	if c := st.Chat; c != nil {
		resp.Chat = &ChatResponse{
			Symbol:          c.Symbol.String(),
			Query:           c.Query,
			Analysis:        c.Analysis,
			Recommendations: c.Recommendations,
		}
	}
	for _, t := range st.Trending {
		resp.Trending = append(resp.Trending, TrendingResponse{
			Symbol:        t.Symbol,
			Name:          t.Name,
			Price:         price(t.Price),
			Change:        price(t.Change),
			ChangePercent: price(t.ChangePercent),
		})
	}
	for _, n := range st.Notices {
		resp.Notices = append(resp.Notices, NoticeResponse{
			ID:        n.ID,
			Kind:      string(n.Kind),
			Op:        string(n.Op),
			Symbol:    n.Symbol.String(),
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp
}
