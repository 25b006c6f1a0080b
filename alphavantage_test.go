package brokerage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// alphaVantageStub serves canned Alpha Vantage responses per query function.
func alphaVantageStub(t *testing.T, responses map[string]string) *AlphaVantage {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.URL.Query().Get("function")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	av := NewAlphaVantage("demo")
	av.base = srv.URL
	return av
}

func TestAlphaVantage_GetTimeSeries(t *testing.T) {
	av := alphaVantageStub(t, map[string]string{
		"TIME_SERIES_INTRADAY": `{
			"Meta Data": {
				"2. Symbol": "IBM",
				"6. Time Zone": "US/Eastern"
			},
			"Time Series (1min)": {
				"2024-05-01 19:59:00": {
					"1. open": "167.0700",
					"2. high": "167.1500",
					"3. low": "167.0500",
					"4. close": "167.1000"
				},
				"2024-05-01 19:58:00": {
					"1. open": "167.0000",
					"2. high": "167.0800",
					"3. low": "166.9900",
					"4. close": "167.0700"
				}
			}
		}`,
	})

	ts, err := av.GetTimeSeries(context.Background(), "IBM", Interval1Min)
	if err != nil {
		t.Fatalf("GetTimeSeries: %v", err)
	}
	if len(ts.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(ts.Points))
	}
	// Points come back sorted oldest first, timestamps converted to UTC.
	// 19:58 US/Eastern on 2024-05-01 is 23:58 UTC.
	want := time.Date(2024, 5, 1, 23, 58, 0, 0, time.UTC)
	if !ts.Points[0].Time.Equal(want) {
		t.Errorf("first point time = %s, want %s", ts.Points[0].Time, want)
	}
	if ts.Points[0].Close != 167.07 {
		t.Errorf("first point close = %v, want 167.07", ts.Points[0].Close)
	}
	// No intraday adjusted close: it falls back to the close.
	if ts.Points[1].AdjustedClose != 167.10 {
		t.Errorf("adjusted close = %v, want 167.10", ts.Points[1].AdjustedClose)
	}
}

func TestAlphaVantage_SearchTickers(t *testing.T) {
	av := alphaVantageStub(t, map[string]string{
		"SYMBOL_SEARCH": `{
			"bestMatches": [
				{
					"1. symbol": "AAPL",
					"2. name": "Apple Inc",
					"5. marketOpen": "09:30",
					"6. marketClose": "16:00",
					"7. timezone": "UTC-04"
				},
				{
					"1. symbol": "APLE",
					"2. name": "Apple Hospitality REIT Inc"
				}
			]
		}`,
	})

	infos, err := av.SearchTickers(context.Background(), "apple")
	if err != nil {
		t.Fatalf("SearchTickers: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d matches, want 2", len(infos))
	}
	want := TickerInfo{Symbol: "AAPL", Name: "Apple Inc", MarketOpen: "09:30", MarketClose: "16:00", Timezone: "UTC-04"}
	if infos[0] != want {
		t.Errorf("first match = %+v, want %+v", infos[0], want)
	}
	if infos[1].Symbol != "APLE" || infos[1].MarketOpen != "" {
		t.Errorf("second match = %+v, want APLE with no trading window", infos[1])
	}
}

func TestAlphaVantage_GetDividends(t *testing.T) {
	av := alphaVantageStub(t, map[string]string{
		"DIVIDENDS": `{
			"symbol": "IBM",
			"data": [
				{"payment_date": "2024-06-10", "amount": "1.67"},
				{"payment_date": "2024-03-09", "amount": "1.66"},
				{"payment_date": "None", "amount": "1.68"}
			]
		}`,
	})

	hist, err := av.GetDividends(context.Background(), "IBM")
	if err != nil {
		t.Fatalf("GetDividends: %v", err)
	}
	// The unscheduled entry is skipped, the rest is sorted oldest first.
	if len(hist.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(hist.Events))
	}
	if hist.Events[0].PayDate.String() != "2024-03-09" || hist.Events[0].Amount != 1.66 {
		t.Errorf("first event = %+v, want 2024-03-09 at 1.66", hist.Events[0])
	}
	if hist.Events[1].PayDate.String() != "2024-06-10" {
		t.Errorf("second event = %+v, want 2024-06-10", hist.Events[1])
	}
}

func TestAlphaVantage_ErrorsWrapUpstream(t *testing.T) {
	av := alphaVantageStub(t, map[string]string{
		"TIME_SERIES_INTRADAY": `{"Information": "rate limited"}`,
	})

	_, err := av.GetTimeSeries(context.Background(), "IBM", Interval1Min)
	if !errors.Is(err, ErrUpstreamProvider) {
		t.Errorf("GetTimeSeries(no series) error = %v, want ErrUpstreamProvider", err)
	}

	// HTTP-level failures wrap the same sentinel.
	_, err = av.SearchTickers(context.Background(), "apple")
	if !errors.Is(err, ErrUpstreamProvider) {
		t.Errorf("SearchTickers(404) error = %v, want ErrUpstreamProvider", err)
	}
}

func TestAlphaVantage_HonorsContext(t *testing.T) {
	av := alphaVantageStub(t, map[string]string{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := av.GetTimeSeries(ctx, "IBM", Interval1Min); err == nil {
		t.Error("GetTimeSeries with canceled context succeeded")
	}
}
