package data912

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testPaths() Paths {
	return Paths{
		Stocks: "/live/arg_stocks",
		Bonds:  "/live/arg_bonds",
		Corp:   "/live/arg_corp",
		MEP:    "/live/mep",
	}
}

func TestFetchStocksDecodesPartialQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/live/arg_stocks" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"symbol":"GGAL","px_bid":4490,"px_ask":4510,"c":4500,"pct_change":1.2,"v":123456},
			{"symbol":"YPFD","px_ask":31000}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, testPaths(), time.Second)
	quotes, err := c.FetchStocks(context.Background())
	if err != nil {
		t.Fatalf("FetchStocks failed: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}

	full := quotes[0]
	if full.Symbol != "GGAL" || full.Last == nil || *full.Last != 4500 {
		t.Errorf("unexpected first quote: %+v", full)
	}
	if full.Bid == nil || *full.Bid != 4490 || full.Ask == nil || *full.Ask != 4510 {
		t.Errorf("bid/ask not decoded: %+v", full)
	}

	partial := quotes[1]
	if partial.Last != nil || partial.Bid != nil {
		t.Errorf("absent fields should stay nil, got %+v", partial)
	}
	if partial.Ask == nil || *partial.Ask != 31000 {
		t.Errorf("present field lost: %+v", partial)
	}
}

func TestFetchMEPDecodesPanel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/live/mep" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"ticker":"AL30","bid":1180.0,"ask":1185.5,"close":1182.0,"panel":"CI"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, testPaths(), time.Second)
	mep, err := c.FetchMEP(context.Background())
	if err != nil {
		t.Fatalf("FetchMEP failed: %v", err)
	}
	if len(mep) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(mep))
	}
	if mep[0].Ticker != "AL30" || mep[0].Ask != 1185.5 || mep[0].Panel != "CI" {
		t.Errorf("unexpected MEP entry: %+v", mep[0])
	}
}

func TestFetchErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, testPaths(), time.Second)
	if _, err := c.FetchBonds(context.Background()); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestFetchErrorOnBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := New(srv.URL, testPaths(), time.Second)
	if _, err := c.FetchCorp(context.Background()); err == nil {
		t.Fatal("expected a decode error")
	}
}
