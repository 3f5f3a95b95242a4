package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-stock-dashboard/internal/dashboard/config"
	"golang-stock-dashboard/internal/dashboard/dto"
	"golang-stock-dashboard/internal/entity"
	"golang-stock-dashboard/pkg/common"
	"golang-stock-dashboard/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BackendRepository talks to the analytics backend. Every error it returns is
// a *entity.FetchError; schema mismatches wrap an *entity.DecodeError.
type BackendRepository interface {
	GetTrending(ctx context.Context) ([]entity.TrendingEntry, error)
	GetSeries(ctx context.Context, symbol entity.Symbol) (*entity.SeriesSnapshot, error)
	Analyze(ctx context.Context, symbol entity.Symbol) (*entity.AnalysisResult, error)
	Chat(ctx context.Context, symbol entity.Symbol, query string) (*entity.ChatResult, error)
}

type backendRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	baseURL        string
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

func NewBackendRepository(cfg *config.Config, log *logger.Logger) BackendRepository {
	limit := rate.Inf
	if cfg.Backend.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.Backend.MaxRequestPerMinute))
	}
	timeout := cfg.Backend.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &backendRepository{
		cfg:     cfg,
		log:     log,
		baseURL: strings.TrimRight(cfg.Backend.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(limit, 1),
	}
}

func (r *backendRepository) GetTrending(ctx context.Context) ([]entity.TrendingEntry, error) {
	body, err := r.sendRequest(ctx, entity.OpTrending, "", http.MethodGet, r.baseURL+common.PathTrending, nil)
	if err != nil {
		return nil, err
	}

	var response dto.TrendingResponse
	if err := dto.Decode(body, &response); err != nil {
		return nil, r.decodeError(ctx, entity.OpTrending, "", err)
	}
	return response.ToEntities(), nil
}

func (r *backendRepository) GetSeries(ctx context.Context, symbol entity.Symbol) (*entity.SeriesSnapshot, error) {
	endpoint := r.baseURL + fmt.Sprintf(common.PathSeries, url.PathEscape(symbol.String()))
	if r.cfg.Backend.Period != "" {
		endpoint += "?" + url.Values{"period": []string{r.cfg.Backend.Period}}.Encode()
	}

	body, err := r.sendRequest(ctx, entity.OpSeries, symbol, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var response dto.SeriesResponse
	if err := dto.Decode(body, &response); err != nil {
		return nil, r.decodeError(ctx, entity.OpSeries, symbol, err)
	}
	snapshot, err := response.ToSnapshot(symbol)
	if err != nil {
		return nil, r.decodeError(ctx, entity.OpSeries, symbol, err)
	}
	return snapshot, nil
}

func (r *backendRepository) Analyze(ctx context.Context, symbol entity.Symbol) (*entity.AnalysisResult, error) {
	timeframe := r.cfg.Backend.Timeframe
	if timeframe == "" {
		timeframe = common.DefaultTimeframe
	}
	payload := dto.AnalyzeRequest{Symbol: symbol.String(), Timeframe: timeframe}

	body, err := r.sendRequest(ctx, entity.OpAnalyze, symbol, http.MethodPost, r.baseURL+common.PathAnalyze, payload)
	if err != nil {
		return nil, err
	}

	var response dto.AnalysisResponse
	if err := dto.Decode(body, &response); err != nil {
		return nil, r.decodeError(ctx, entity.OpAnalyze, symbol, err)
	}
	return response.ToEntity(symbol, timeframe), nil
}

func (r *backendRepository) Chat(ctx context.Context, symbol entity.Symbol, query string) (*entity.ChatResult, error) {
	payload := dto.ChatRequest{Symbol: symbol.String(), Query: query}

	body, err := r.sendRequest(ctx, entity.OpChat, symbol, http.MethodPost, r.baseURL+common.PathChat, payload)
	if err != nil {
		return nil, err
	}

	var response dto.ChatResponse
	if err := dto.Decode(body, &response); err != nil {
		return nil, r.decodeError(ctx, entity.OpChat, symbol, err)
	}
	return response.ToEntity(symbol, query), nil
}

func (r *backendRepository) decodeError(ctx context.Context, op entity.Operation, symbol entity.Symbol, err error) error {
	r.log.ErrorContext(ctx, "Backend response does not match schema",
		logger.StringField("op", string(op)),
		logger.StringField("symbol", symbol.String()),
		logger.ErrorField(err))
	return &entity.FetchError{Op: op, Symbol: symbol, Err: &entity.DecodeError{Op: op, Err: err}}
}

func (r *backendRepository) sendRequest(ctx context.Context, op entity.Operation, symbol entity.Symbol, method, endpoint string, payload interface{}) ([]byte, error) {
	fields := []zap.Field{
		zap.String("op", string(op)),
		zap.String("method", method),
		zap.String("url", endpoint),
	}
	fail := func(err error) error {
		return &entity.FetchError{Op: op, Symbol: symbol, Err: err}
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, fail(err)
	}

	var reqBody io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			return nil, fail(fmt.Errorf("marshal payload: %w", err))
		}
		reqBody = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, fail(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if r.cfg.Backend.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.Backend.UserAgent)
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			r.log.DebugContext(ctx, "Backend request abandoned", fields...)
			return nil, fail(err)
		}
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to backend", fields...)
		return nil, fail(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from backend", fields...)
		return nil, fail(err)
	}

	fields = append(fields, zap.Int("status_code", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))
	if resp.StatusCode != http.StatusOK {
		var errResp dto.ErrorResponse
		_ = json.Unmarshal(body, &errResp)
		detail := errResp.Message()
		fields = append(fields, zap.String("detail", detail))
		r.log.ErrorContext(ctx, "Received non-OK response from backend", fields...)
		return nil, &entity.FetchError{Op: op, Symbol: symbol, StatusCode: resp.StatusCode, Detail: detail}
	}

	r.log.DebugContext(ctx, "Backend request completed", fields...)
	return body, nil
}
