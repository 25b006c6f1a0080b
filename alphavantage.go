package brokerage

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

const alphavantage_token = "ALPHAVANTAGE_TOKEN"

var alphavantageTokenFlag = flag.String("alphavantage-token", "", "Alpha Vantage API key to use for fetching market data.\n If missing it will read the environment variable \""+alphavantage_token+"\". You can get one at https://www.alphavantage.co/")

// AlphaVantageToken resolves the API key, flag first, then environment.
func AlphaVantageToken() string {
	if *alphavantageTokenFlag == "" {
		*alphavantageTokenFlag = os.Getenv(alphavantage_token)
	}
	return *alphavantageTokenFlag
}

// AlphaVantage is a PriceProvider backed by the Alpha Vantage HTTP API.
type AlphaVantage struct {
	apiKey string
	base   string
	client *http.Client
}

// NewAlphaVantage creates a provider using the given API key.
func NewAlphaVantage(apiKey string) *AlphaVantage {
	return &AlphaVantage{
		apiKey: apiKey,
		base:   "https://www.alphavantage.co",
		client: new(http.Client),
	}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure. The request is bound to ctx, so a stalled
// provider call cannot stall a trade past the caller's deadline.
func jwget(ctx context.Context, client *http.Client, addr string, data interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// number reads an Alpha Vantage numeric value, which the API serves as a
// quoted string.
func number(v any) (float64, error) {
	s, ok := v.(string)
	if !ok {
		if f, ok := v.(float64); ok {
			return f, nil
		}
		return 0, fmt.Errorf("not a number: %v", v)
	}
	return strconv.ParseFloat(s, 64)
}

// GetTimeSeries fetches the intraday series for a symbol.
//
//	{
//	    "Meta Data": {
//	        "2. Symbol": "IBM",
//	        "6. Time Zone": "US/Eastern"
//	    },
//	    "Time Series (1min)": {
//	        "2024-05-01 19:59:00": {
//	            "1. open": "167.0700",
//	            "2. high": "167.1500",
//	            "3. low": "167.0500",
//	            "4. close": "167.1000"
//	        },
func (av *AlphaVantage) GetTimeSeries(ctx context.Context, symbol string, interval Interval) (*TimeSeries, error) {
	addr := fmt.Sprintf("%s/query?function=TIME_SERIES_INTRADAY&symbol=%s&interval=%s&outputsize=compact&apikey=%s",
		av.base, url.QueryEscape(symbol), interval, av.apiKey)
	var jobj any
	if err := jwget(ctx, av.client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("%w: time series for %q: %w", ErrUpstreamProvider, symbol, err)
	}

	// The series lives under a key that embeds the interval, and the
	// timestamps are wall clock in the exchange's zone from the metadata.
	loc := time.UTC
	if jtz, err := jsonpath.Get(`$["Meta Data"]["6. Time Zone"]`, jobj); err == nil {
		if tz, ok := jtz.(string); ok {
			if l, err := time.LoadLocation(tz); err == nil {
				loc = l
			}
		}
	}

	jseries, err := jsonpath.Get(fmt.Sprintf(`$["Time Series (%s)"]`, interval), jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: no %s series for %q in response", ErrUpstreamProvider, interval, symbol)
	}
	series, ok := jseries.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: malformed %s series for %q", ErrUpstreamProvider, interval, symbol)
	}

	ts := &TimeSeries{Symbol: symbol, Interval: interval}
	for stamp, jpoint := range series {
		point, ok := jpoint.(map[string]any)
		if !ok {
			continue
		}
		when, err := time.ParseInLocation("2006-01-02 15:04:05", stamp, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid timestamp %q for %q: %w", ErrUpstreamProvider, stamp, symbol, err)
		}
		p := PricePoint{Time: when.UTC()}
		if p.Open, err = number(point["1. open"]); err != nil {
			return nil, fmt.Errorf("%w: invalid open for %q at %s: %w", ErrUpstreamProvider, symbol, stamp, err)
		}
		if p.High, err = number(point["2. high"]); err != nil {
			return nil, fmt.Errorf("%w: invalid high for %q at %s: %w", ErrUpstreamProvider, symbol, stamp, err)
		}
		if p.Low, err = number(point["3. low"]); err != nil {
			return nil, fmt.Errorf("%w: invalid low for %q at %s: %w", ErrUpstreamProvider, symbol, stamp, err)
		}
		if p.Close, err = number(point["4. close"]); err != nil {
			return nil, fmt.Errorf("%w: invalid close for %q at %s: %w", ErrUpstreamProvider, symbol, stamp, err)
		}
		// Intraday entries carry no adjusted close; the close is the best available.
		p.AdjustedClose = p.Close
		ts.Points = append(ts.Points, p)
	}
	slices.SortFunc(ts.Points, func(a, b PricePoint) int { return a.Time.Compare(b.Time) })
	return ts, nil
}

// SearchTickers searches instruments by keyword.
//
//	{
//	    "bestMatches": [
//	        {
//	            "1. symbol": "AAPL",
//	            "2. name": "Apple Inc",
//	            "5. marketOpen": "09:30",
//	            "6. marketClose": "16:00",
//	            "7. timezone": "UTC-04"
//	        },
func (av *AlphaVantage) SearchTickers(ctx context.Context, query string) ([]TickerInfo, error) {
	addr := fmt.Sprintf("%s/query?function=SYMBOL_SEARCH&keywords=%s&apikey=%s",
		av.base, url.QueryEscape(query), av.apiKey)
	var jobj any
	if err := jwget(ctx, av.client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("%w: searching %q: %w", ErrUpstreamProvider, query, err)
	}
	jmatches, err := jsonpath.Get(`$.bestMatches`, jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: no matches for %q in response", ErrUpstreamProvider, query)
	}
	matches, ok := jmatches.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: malformed matches for %q", ErrUpstreamProvider, query)
	}

	str := func(m map[string]any, key string) string {
		s, _ := m[key].(string)
		return s
	}
	var infos []TickerInfo
	for _, jmatch := range matches {
		match, ok := jmatch.(map[string]any)
		if !ok {
			continue
		}
		infos = append(infos, TickerInfo{
			Symbol:      str(match, "1. symbol"),
			Name:        str(match, "2. name"),
			MarketOpen:  str(match, "5. marketOpen"),
			MarketClose: str(match, "6. marketClose"),
			Timezone:    str(match, "7. timezone"),
		})
	}
	return infos, nil
}

// GetDividends fetches the dividend history for a symbol.
//
//	{
//	    "symbol": "IBM",
//	    "data": [
//	        {
//	            "payment_date": "2024-06-10",
//	            "amount": "1.67"
//	        },
func (av *AlphaVantage) GetDividends(ctx context.Context, symbol string) (*DividendHistory, error) {
	addr := fmt.Sprintf("%s/query?function=DIVIDENDS&symbol=%s&apikey=%s",
		av.base, url.QueryEscape(symbol), av.apiKey)
	var jobj any
	if err := jwget(ctx, av.client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("%w: dividends for %q: %w", ErrUpstreamProvider, symbol, err)
	}
	jdata, err := jsonpath.Get(`$.data`, jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: no dividend data for %q in response", ErrUpstreamProvider, symbol)
	}
	entries, ok := jdata.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: malformed dividend data for %q", ErrUpstreamProvider, symbol)
	}

	hist := &DividendHistory{Symbol: symbol}
	for _, jentry := range entries {
		entry, ok := jentry.(map[string]any)
		if !ok {
			continue
		}
		rawDate, _ := entry["payment_date"].(string)
		payDate, err := ParseDate(rawDate)
		if err != nil {
			// Declared but unscheduled dividends have no payment date yet.
			continue
		}
		amount, err := number(entry["amount"])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid dividend amount for %q on %s: %w", ErrUpstreamProvider, symbol, rawDate, err)
		}
		hist.Events = append(hist.Events, DividendEvent{PayDate: payDate, Amount: amount})
	}
	slices.SortFunc(hist.Events, func(a, b DividendEvent) int { return a.PayDate.UTC().Compare(b.PayDate.UTC()) })
	return hist, nil
}
