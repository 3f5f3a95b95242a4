package dto

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang-stock-dashboard/internal/entity"
	"golang-stock-dashboard/pkg/common"
	"golang-stock-dashboard/pkg/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validatable is a backend response that can check its own shape.
type Validatable interface {
	Validate() error
}

// Decode unmarshals body into v and validates it against its schema.
func Decode(body []byte, v Validatable) error {
	if err := json.Unmarshal(body, v); err != nil {
		return err
	}
	return v.Validate()
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Symbol string `json:"symbol"`
	Query  string `json:"query"`
}

// ErrorResponse is the error body returned by the backend. Detail is a string
// for application errors and a list of objects for request validation errors.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// Message returns the detail as a single line of text.
func (r ErrorResponse) Message() string {
	if len(r.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(r.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(r.Detail)
}

// PricePointResponse is one bar of GET /stock/{symbol}/data.
type PricePointResponse struct {
	Date   string   `json:"date" validate:"required"`
	Open   *float64 `json:"open" validate:"required"`
	High   *float64 `json:"high" validate:"required"`
	Low    *float64 `json:"low" validate:"required"`
	Close  *float64 `json:"close" validate:"required"`
	Volume *int64   `json:"volume" validate:"required,gte=0"`
	SMA20  *float64 `json:"sma_20"`
	SMA50  *float64 `json:"sma_50"`
	RSI    *float64 `json:"rsi"`
}

// SeriesResponse is the body of GET /stock/{symbol}/data.
type SeriesResponse struct {
	Symbol string               `json:"symbol"`
	Data   []PricePointResponse `json:"data" validate:"required,min=1,dive"`
}

func (r *SeriesResponse) Validate() error {
	return validate.Struct(r)
}

// ToSnapshot converts the response into a snapshot ordered ascending by date.
func (r *SeriesResponse) ToSnapshot(symbol entity.Symbol) (*entity.SeriesSnapshot, error) {
	points := make([]entity.PricePoint, 0, len(r.Data))
	for i, p := range r.Data {
		date, err := parseDate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("data[%d].date: %w", i, err)
		}
		points = append(points, entity.PricePoint{
			Date:   date,
			Open:   utils.Deref(p.Open),
			High:   utils.Deref(p.High),
			Low:    utils.Deref(p.Low),
			Close:  utils.Deref(p.Close),
			Volume: utils.Deref(p.Volume),
			SMA20:  p.SMA20,
			SMA50:  p.SMA50,
			RSI:    p.RSI,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return &entity.SeriesSnapshot{Symbol: symbol, Points: points}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(common.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// AnalysisResponse is the body returned by POST /analyze.
type AnalysisResponse struct {
	TechnicalIndicators map[string]*float64 `json:"technical_indicators"`
	RiskLevel           string              `json:"risk_level" validate:"required"`
	ConfidenceScore     *float64            `json:"confidence_score" validate:"required,gte=0,lte=100"`
	Recommendations     []string            `json:"recommendations" validate:"required"`
	Analysis            string              `json:"analysis" validate:"required"`
}

func (r *AnalysisResponse) Validate() error {
	return validate.Struct(r)
}

func (r *AnalysisResponse) ToEntity(symbol entity.Symbol, timeframe string) *entity.AnalysisResult {
	return &entity.AnalysisResult{
		Symbol:              symbol,
		Timeframe:           timeframe,
		TechnicalIndicators: ToIndicators(r.TechnicalIndicators),
		RiskLevel:           entity.ParseRiskLevel(r.RiskLevel),
		ConfidenceScore:     *r.ConfidenceScore,
		Recommendations:     r.Recommendations,
		Analysis:            r.Analysis,
	}
}

// ToIndicators drops null values so omitted and null indicators look the same.
func ToIndicators(raw map[string]*float64) entity.Indicators {
	indicators := make(entity.Indicators, len(raw))
	for name, v := range raw {
		if v == nil {
			continue
		}
		indicators[name] = *v
	}
	return indicators
}

// ChatResponse is the body returned by POST /chat. The backend sends the full
// analysis payload; only the conversational fields are kept.
type ChatResponse struct {
	Analysis        string   `json:"analysis" validate:"required"`
	Recommendations []string `json:"recommendations" validate:"required"`
}

func (r *ChatResponse) Validate() error {
	return validate.Struct(r)
}

func (r *ChatResponse) ToEntity(symbol entity.Symbol, query string) *entity.ChatResult {
	return &entity.ChatResult{
		Symbol:          symbol,
		Query:           query,
		Analysis:        r.Analysis,
		Recommendations: r.Recommendations,
	}
}

// TrendingStockResponse is one entry of GET /market/trending.
type TrendingStockResponse struct {
	Symbol        string   `json:"symbol" validate:"required"`
	Name          string   `json:"name"`
	Price         *float64 `json:"price" validate:"required"`
	Change        *float64 `json:"change" validate:"required"`
	ChangePercent *float64 `json:"change_percent" validate:"required"`
}

// TrendingResponse is the body of GET /market/trending.
type TrendingResponse struct {
	TrendingStocks []TrendingStockResponse `json:"trending_stocks" validate:"required,dive"`
}

func (r *TrendingResponse) Validate() error {
	return validate.Struct(r)
}

func (r *TrendingResponse) ToEntities() []entity.TrendingEntry {
	entries := make([]entity.TrendingEntry, 0, len(r.TrendingStocks))
	for _, s := range r.TrendingStocks {
		name := s.Name
		if name == "" {
			name = s.Symbol
		}
		entries = append(entries, entity.TrendingEntry{
			Symbol:        s.Symbol,
			Name:          name,
			Price:         *s.Price,
			Change:        *s.Change,
			ChangePercent: *s.ChangePercent,
		})
	}
	return entries
}
