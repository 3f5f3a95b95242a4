package service

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"golang-stock-dashboard/internal/entity"
	"golang-stock-dashboard/pkg/logger"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type NoticeKind string

const (
	NoticeValidation NoticeKind = "validation"
	NoticeFetch      NoticeKind = "fetch"
	NoticeDecode     NoticeKind = "decode"
)

const (
	defaultNoticeTTL = 8 * time.Second
	// expiry callbacks fire slightly late so the cache already reports the notice as gone
	expirySlack = 10 * time.Millisecond
)

// Notice is a transient, user-visible message about a failed action.
type Notice struct {
	ID        string
	Kind      NoticeKind
	Op        entity.Operation
	Symbol    entity.Symbol
	Message   string
	CreatedAt time.Time

	seq uint64
}

// ErrorSurface turns errors into notices that expire on their own.
type ErrorSurface struct {
	log     *logger.Logger
	notices *cache.Cache
	ttl     time.Duration
	seq     atomic.Uint64

	// onExpire runs on a timer goroutine once a reported notice has expired.
	onExpire func()
}

func NewErrorSurface(log *logger.Logger, ttl time.Duration) *ErrorSurface {
	if ttl <= 0 {
		ttl = defaultNoticeTTL
	}
	return &ErrorSurface{
		log:     log,
		notices: cache.New(ttl, ttl),
		ttl:     ttl,
	}
}

// Report records err as a notice. Cancellations are not failures and produce
// no notice; nil is returned for them.
func (e *ErrorSurface) Report(err error) *Notice {
	if err == nil || entity.IsCanceled(err) {
		return nil
	}

	n := Notice{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		seq:       e.seq.Add(1),
	}

	var (
		validationErr *entity.ValidationError
		fetchErr      *entity.FetchError
	)
	switch {
	case errors.As(err, &validationErr):
		n.Kind = NoticeValidation
		n.Message = validationErr.Error()
	case errors.As(err, &fetchErr):
		n.Kind = NoticeFetch
		n.Op = fetchErr.Op
		n.Symbol = fetchErr.Symbol
		if entity.IsDecode(err) {
			n.Kind = NoticeDecode
		}
		n.Message = fetchMessage(fetchErr, n.Kind)
	default:
		n.Kind = NoticeFetch
		n.Message = err.Error()
	}

	e.notices.SetDefault(n.ID, n)
	if e.onExpire != nil {
		time.AfterFunc(e.ttl+expirySlack, e.onExpire)
	}
	e.log.Warn("User notice raised",
		logger.StringField("notice_id", n.ID),
		logger.StringField("kind", string(n.Kind)),
		logger.StringField("op", string(n.Op)),
		logger.StringField("symbol", n.Symbol.String()),
		logger.ErrorField(err))
	return &n
}

func fetchMessage(err *entity.FetchError, kind NoticeKind) string {
	var what string
	switch err.Op {
	case entity.OpSeries:
		what = fmt.Sprintf("Could not load price data for %s", err.Symbol)
	case entity.OpAnalyze:
		what = fmt.Sprintf("Analysis for %s failed", err.Symbol)
	case entity.OpChat:
		what = fmt.Sprintf("Chat request for %s failed", err.Symbol)
	case entity.OpTrending:
		what = "Could not load trending stocks"
	default:
		what = "Request failed"
	}

	switch {
	case kind == NoticeDecode:
		return what + ": unexpected response from backend"
	case err.Detail != "":
		return fmt.Sprintf("%s: %s", what, err.Detail)
	case err.StatusCode != 0:
		return fmt.Sprintf("%s: backend returned status %d", what, err.StatusCode)
	default:
		return what + ": backend unreachable"
	}
}

// Active returns the unexpired notices, oldest first.
func (e *ErrorSurface) Active() []Notice {
	items := e.notices.Items()
	notices := make([]Notice, 0, len(items))
	for _, item := range items {
		if n, ok := item.Object.(Notice); ok {
			notices = append(notices, n)
		}
	}
	sort.Slice(notices, func(i, j int) bool {
		return notices[i].seq < notices[j].seq
	})
	return notices
}

// Dismiss removes a notice before it expires.
func (e *ErrorSurface) Dismiss(id string) bool {
	if _, ok := e.notices.Get(id); !ok {
		return false
	}
	e.notices.Delete(id)
	return true
}

// Clear drops every notice.
func (e *ErrorSurface) Clear() {
	e.notices.Flush()
}
