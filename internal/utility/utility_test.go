package utility

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func endpointsFor(url string) Endpoints {
	return Endpoints{OpenMeteo: url, ExchangeRate: url, OpenER: url}
}

func TestWeatherDefaults(t *testing.T) {
	var gotQuery string
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"latitude":43.86,"longitude":18.41,"timezone":"Europe/Sarajevo","current":{"time":"2024-05-01T12:00","temperature_2m":21.5,"weather_code":3}}`))
	})
	c := New(time.Second, WithEndpoints(endpointsFor(srv.URL)))

	rep, err := c.Weather(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.Equal(t, 21.5, rep.Current.Temperature)
	assert.Equal(t, 3, rep.Current.WeatherCode)
	assert.Contains(t, gotQuery, "latitude=43.8563")
	assert.Contains(t, gotQuery, "longitude=18.4131")
	assert.Contains(t, gotQuery, "timezone=Europe%2FSarajevo")
}

func TestWeatherUpstreamFailure(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c := New(time.Second, WithEndpoints(endpointsFor(srv.URL)))
	_, err := c.Weather(context.Background(), "1", "2", "")
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestRatesKeyedProviderFirst(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v6/secret/latest/EUR", r.URL.Path)
		_, _ = w.Write([]byte(`{"result":"success","conversion_rates":{"BAM":1.95583,"USD":1.08,"GBP":0.85}}`))
	})
	c := New(time.Second, WithEndpoints(endpointsFor(srv.URL)), WithExchangeRateKey("secret"))

	rep, err := c.Rates(context.Background(), "eur", []string{"BAM", "USD"})
	require.NoError(t, err)
	assert.Equal(t, "EUR", rep.Base)
	assert.Equal(t, map[string]float64{"BAM": 1.95583, "USD": 1.08}, rep.Rates)
}

func TestRatesFallsBackToFreeProvider(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v6/secret/") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		assert.Equal(t, "/v6/latest/USD", r.URL.Path)
		_, _ = w.Write([]byte(`{"result":"success","rates":{"BAM":1.81,"EUR":0.92}}`))
	})
	c := New(time.Second, WithEndpoints(endpointsFor(srv.URL)), WithExchangeRateKey("secret"))

	rep, err := c.Rates(context.Background(), "USD", []string{"BAM"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"BAM": 1.81}, rep.Rates)
}

func TestRatesCrossViaEUR(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v6/latest/BAM":
			_, _ = w.Write([]byte(`{"result":"error"}`))
		case "/v6/latest/EUR":
			_, _ = w.Write([]byte(`{"result":"success","rates":{"EUR":1,"BAM":2,"USD":1.1}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	c := New(time.Second, WithEndpoints(endpointsFor(srv.URL)))

	rep, err := c.Rates(context.Background(), "BAM", []string{"USD", "EUR"})
	require.NoError(t, err)
	assert.InDelta(t, 0.55, rep.Rates["USD"], 1e-9)
	assert.InDelta(t, 0.5, rep.Rates["EUR"], 1e-9)
}

func TestRatesUnknownBase(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"success","rates":{"EUR":1,"USD":1.1}}`))
	})
	c := New(time.Second, WithEndpoints(endpointsFor(srv.URL)))
	_, err := c.Rates(context.Background(), "XXX", []string{"BAM"})
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := New(time.Second, WithEndpoints(endpointsFor(srv.URL)))
	for i := 0; i < 8; i++ {
		_, err := c.Weather(context.Background(), "", "", "")
		require.ErrorIs(t, err, ErrUpstreamUnavailable)
	}
	assert.Equal(t, int32(5), calls.Load(), "open breaker short-circuits further calls")
}

func TestParseSymbols(t *testing.T) {
	assert.Equal(t, []string{"BAM", "USD"}, ParseSymbols(" bam, usd ,"))
	assert.Equal(t, DefaultSymbols, ParseSymbols(""))
}
