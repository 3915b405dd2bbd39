package money

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoBaseCurrency indicates a registry without a base currency.
	ErrNoBaseCurrency = errors.New("money: registry requires exactly one base currency")
	// ErrMultipleBaseCurrencies indicates more than one base currency flag.
	ErrMultipleBaseCurrencies = errors.New("money: more than one base currency")
	// ErrDuplicateCurrency indicates a repeated currency code.
	ErrDuplicateCurrency = errors.New("money: duplicate currency code")
	// ErrCurrencyNotFound indicates an unregistered currency code.
	ErrCurrencyNotFound = errors.New("money: currency not found")
)

// Currency describes one registered currency. Exactly one currency in a
// registry carries IsBase; it is the reporting fallback for records without
// an explicit currency.
type Currency struct {
	ID     int64
	Code   string
	Name   string
	Symbol string
	IsBase bool
}

// Registry is an immutable lookup over the active currencies.
type Registry struct {
	byCode map[string]Currency
	base   Currency
}

// NewRegistry validates the currency set and builds the lookup.
func NewRegistry(currencies []Currency) (*Registry, error) {
	if len(currencies) == 0 {
		return nil, ErrNoBaseCurrency
	}
	byCode := make(map[string]Currency, len(currencies))
	var base *Currency
	for _, cur := range currencies {
		code := strings.ToUpper(strings.TrimSpace(cur.Code))
		if code == "" {
			return nil, fmt.Errorf("money: currency %q missing code", cur.Name)
		}
		if _, ok := byCode[code]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCurrency, code)
		}
		cur.Code = code
		byCode[code] = cur
		if cur.IsBase {
			if base != nil {
				return nil, ErrMultipleBaseCurrencies
			}
			c := cur
			base = &c
		}
	}
	if base == nil {
		return nil, ErrNoBaseCurrency
	}
	return &Registry{byCode: byCode, base: *base}, nil
}

// Base returns the base (reporting fallback) currency.
func (r *Registry) Base() Currency {
	return r.base
}

// Resolve looks up a currency by code, case-insensitively.
func (r *Registry) Resolve(code string) (Currency, bool) {
	cur, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return cur, ok
}

// Codes lists the registered codes in ascending order.
func (r *Registry) Codes() []string {
	out := make([]string, 0, len(r.byCode))
	for code := range r.byCode {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
