package utility

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

const (
	DefaultBase = "EUR"
	crossBase   = "EUR"
)

// DefaultSymbols are the target currencies shown when none are requested.
var DefaultSymbols = []string{"BAM", "USD"}

type RatesReport struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

type exchangeRateResponse struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

type openERResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// ParseSymbols splits a comma separated symbol list.
func ParseSymbols(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = upper(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultSymbols...)
	}
	return out
}

func pick(rates map[string]float64, symbols []string) map[string]float64 {
	out := make(map[string]float64, len(symbols))
	for _, s := range symbols {
		if r, ok := rates[s]; ok {
			out[s] = r
		}
	}
	return out
}

// Rates returns exchange rates from base to each symbol. Providers are tried
// in order: the keyed exchangerate-api (when configured), open.er-api, then a
// cross rate computed from the EUR table.
func (c *Client) Rates(ctx context.Context, base string, symbols []string) (*RatesReport, error) {
	base = upper(base)
	if base == "" {
		base = DefaultBase
	}
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}

	if c.apiKey != "" {
		u := c.endpoints.ExchangeRate + "/v6/" + url.PathEscape(c.apiKey) + "/latest/" + url.PathEscape(base)
		if body, err := c.get(ctx, providerExchangeRate, u); err == nil {
			var r exchangeRateResponse
			if json.Unmarshal(body, &r) == nil && r.ConversionRates != nil {
				return &RatesReport{Base: base, Rates: pick(r.ConversionRates, symbols)}, nil
			}
		}
	}

	if r, err := c.openER(ctx, base); err == nil {
		if out := pick(r, symbols); len(out) > 0 {
			return &RatesReport{Base: base, Rates: out}, nil
		}
	}

	ref, err := c.openER(ctx, crossBase)
	if err != nil {
		return nil, fmt.Errorf("%w: rates: %v", ErrUpstreamUnavailable, err)
	}
	baseRate, ok := ref[base]
	if !ok || baseRate == 0 {
		return nil, fmt.Errorf("%w: base currency %s not available", ErrUpstreamUnavailable, base)
	}
	cross := make(map[string]float64, len(symbols))
	for _, s := range symbols {
		if sr, ok := ref[s]; ok && sr != 0 {
			cross[s] = sr / baseRate
		}
	}
	return &RatesReport{Base: base, Rates: cross}, nil
}

func (c *Client) openER(ctx context.Context, base string) (map[string]float64, error) {
	body, err := c.get(ctx, providerOpenER, c.endpoints.OpenER+"/v6/latest/"+url.PathEscape(base))
	if err != nil {
		return nil, err
	}
	var r openERResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	if r.Result != "success" || r.Rates == nil {
		return nil, fmt.Errorf("open.er-api: result %q", r.Result)
	}
	return r.Rates, nil
}
