package entity

import (
	"strings"

	"golang-stock-dashboard/pkg/common"
)

// Symbol is a canonical, exchange-qualified ticker such as "RELIANCE.NS".
// Construct it with CanonicalizeSymbol; it is the key for all symbol-scoped state.
type Symbol string

func (s Symbol) String() string {
	return string(s)
}

func (s Symbol) IsZero() bool {
	return s == ""
}

// Ticker returns the part before the exchange suffix.
func (s Symbol) Ticker() string {
	if i := strings.LastIndex(string(s), "."); i >= 0 {
		return string(s)[:i]
	}
	return string(s)
}

// Exchange returns the exchange suffix including the leading dot.
func (s Symbol) Exchange() string {
	if i := strings.LastIndex(string(s), "."); i >= 0 {
		return string(s)[i:]
	}
	return ""
}

// CanonicalizeSymbol trims and uppercases raw input and appends suffix when the
// result has no dot. An empty suffix falls back to ".NS".
func CanonicalizeSymbol(raw, suffix string) (Symbol, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return "", &ValidationError{Field: "symbol", Message: "symbol must not be empty"}
	}
	if strings.Contains(normalized, ".") {
		return Symbol(normalized), nil
	}
	return Symbol(normalized + NormalizeSuffix(suffix)), nil
}

// NormalizeSuffix uppercases suffix and makes sure it starts with a dot.
func NormalizeSuffix(suffix string) string {
	suffix = strings.ToUpper(strings.TrimSpace(suffix))
	if suffix == "" || suffix == "." {
		return common.DefaultExchangeSuffix
	}
	if !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	return suffix
}
