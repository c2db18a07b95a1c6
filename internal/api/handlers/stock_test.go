package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ndewijer/stock-market-api/internal/api/response"
	"github.com/ndewijer/stock-market-api/internal/model"
	"github.com/ndewijer/stock-market-api/internal/service"
	"github.com/ndewijer/stock-market-api/internal/testutil"
)

func setupStockHandler(t *testing.T) (*StockHandler, *sqlx.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewStockHandler(testutil.NewTestStockService(t, db)), db
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) model.StockPage {
	t.Helper()

	var page model.StockPage
	if err := json.NewDecoder(w.Body).Decode(&page); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return page
}

func recordBody(rec model.StockRecord) map[string]any {
	return map[string]any{
		"date":       rec.Date.String(),
		"trade_code": rec.TradeCode,
		"high":       rec.High,
		"low":        rec.Low,
		"open":       rec.Open,
		"close":      rec.Close,
		"volume":     rec.Volume,
	}
}

func TestStockHandler_Data(t *testing.T) {
	t.Run("returns empty page when no records exist", func(t *testing.T) {
		handler, _ := setupStockHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		w := httptest.NewRecorder()

		handler.Data(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		page := decodePage(t, w)
		if page.Total != 0 {
			t.Errorf("Expected total 0, got %d", page.Total)
		}
		if page.Data == nil || len(page.Data) != 0 {
			t.Errorf("Expected empty data array, got %v", page.Data)
		}
	})

	t.Run("pages cover every record exactly once", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		code := testutil.MakeTradeCode("ACI")
		testutil.CreateStockSeries(t, db, code, 7)

		seen := make(map[string]int)
		for pageNum := 1; pageNum <= 3; pageNum++ {
			req := testutil.NewRequestWithQueryParams(http.MethodGet, "/data", map[string]string{
				"page":  strconv.Itoa(pageNum),
				"limit": "3",
			})
			w := httptest.NewRecorder()

			handler.Data(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
			}

			page := decodePage(t, w)
			if page.Total != 7 {
				t.Errorf("Expected total 7, got %d", page.Total)
			}

			want := min(3, 7-(pageNum-1)*3)
			if len(page.Data) != want {
				t.Errorf("Page %d: expected %d records, got %d", pageNum, want, len(page.Data))
			}
			for _, rec := range page.Data {
				seen[rec.Date.String()]++
			}
		}

		if len(seen) != 7 {
			t.Errorf("Expected 7 distinct records across pages, got %d", len(seen))
		}
		for date, n := range seen {
			if n != 1 {
				t.Errorf("Record %s returned %d times", date, n)
			}
		}
	})

	t.Run("page past the end returns empty data with total", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		testutil.CreateStockSeries(t, db, testutil.MakeTradeCode("GP"), 2)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/data", map[string]string{"page": "5"})
		w := httptest.NewRecorder()

		handler.Data(w, req)

		page := decodePage(t, w)
		if page.Total != 2 {
			t.Errorf("Expected total 2, got %d", page.Total)
		}
		if len(page.Data) != 0 {
			t.Errorf("Expected no records, got %d", len(page.Data))
		}
	})

	t.Run("filters by trade code", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		aci := testutil.MakeTradeCode("ACI")
		testutil.CreateStockSeries(t, db, aci, 3)
		testutil.CreateStockSeries(t, db, testutil.MakeTradeCode("GP"), 4)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/data", map[string]string{"trade_code": aci})
		w := httptest.NewRecorder()

		handler.Data(w, req)

		page := decodePage(t, w)
		if page.Total != 3 {
			t.Errorf("Expected total 3, got %d", page.Total)
		}
		for _, rec := range page.Data {
			if rec.TradeCode != aci {
				t.Errorf("Expected trade code %s, got %s", aci, rec.TradeCode)
			}
		}
	})

	t.Run("unknown trade code yields total 0 and empty array", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		testutil.CreateStockSeries(t, db, testutil.MakeTradeCode("ACI"), 2)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/data", map[string]string{"trade_code": "NOPE"})
		w := httptest.NewRecorder()

		handler.Data(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		page := decodePage(t, w)
		if page.Total != 0 || len(page.Data) != 0 {
			t.Errorf("Expected empty page, got total=%d len=%d", page.Total, len(page.Data))
		}
	})

	t.Run("rejects invalid pagination", func(t *testing.T) {
		handler, _ := setupStockHandler(t)

		for _, params := range []map[string]string{
			{"page": "0"},
			{"page": "abc"},
			{"limit": "-1"},
			{"limit": "100000"},
		} {
			req := testutil.NewRequestWithQueryParams(http.MethodGet, "/data", params)
			w := httptest.NewRecorder()

			handler.Data(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Params %v: expected 400, got %d", params, w.Code)
			}
		}
	})

	t.Run("returns 504 when the request deadline has passed", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		testutil.CreateStockSeries(t, db, "ACI", 2)

		ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
		defer cancel()

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/data", map[string]string{"page": "1"}).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.Data(w, req)

		if w.Code != http.StatusGatewayTimeout {
			t.Fatalf("Expected 504, got %d: %s", w.Code, w.Body.String())
		}

		var errResp response.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}
		if errResp.Error != "request timed out" {
			t.Errorf("Expected error 'request timed out', got '%s'", errResp.Error)
		}
	})

	t.Run("returns 500 when database is closed", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		w := httptest.NewRecorder()

		handler.Data(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}

		var errResp response.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}
		if errResp.Details != nil {
			t.Errorf("Expected no details in 500 response, got %v", errResp.Details)
		}
	})
}

func TestStockHandler_Data_StaticSource(t *testing.T) {
	const document = `[
  {"date":"2020-08-10","trade_code":"ACI","high":10,"low":8,"open":9,"close":9.5,"volume":100},
  {"date":"2020-08-10","trade_code":"GP","high":20,"low":18,"open":19,"close":19.5,"volume":200}
]`

	handler := NewStockHandler(service.NewStockService(testutil.NewTestStaticStore(t, document)))

	t.Run("serves the document verbatim without query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		w := httptest.NewRecorder()

		handler.Data(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if w.Body.String() != document {
			t.Errorf("Expected raw document, got %s", w.Body.String())
		}
	})

	t.Run("pages the snapshot when queried", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/data", map[string]string{"trade_code": "GP"})
		w := httptest.NewRecorder()

		handler.Data(w, req)

		page := decodePage(t, w)
		if page.Total != 1 || len(page.Data) != 1 || page.Data[0].TradeCode != "GP" {
			t.Errorf("Unexpected page: %+v", page)
		}
	})

	t.Run("rejects a page whose offset overflows", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/data", map[string]string{
			"page":  "9223372036854775807",
			"limit": "2",
		})
		w := httptest.NewRecorder()

		handler.Data(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects mutations with 403", func(t *testing.T) {
		rec := testutil.NewStockRecord().Record()

		for _, tc := range []struct {
			method  string
			path    string
			handler http.HandlerFunc
		}{
			{http.MethodPost, "/add", handler.Add},
			{http.MethodPost, "/update", handler.Update},
			{http.MethodDelete, "/delete", handler.Delete},
		} {
			req := testutil.NewJSONRequest(t, tc.method, tc.path, recordBody(rec))
			w := httptest.NewRecorder()

			tc.handler(w, req)

			if w.Code != http.StatusForbidden {
				t.Errorf("%s %s: expected 403, got %d", tc.method, tc.path, w.Code)
			}
		}
	})
}

func TestStockHandler_TradeCodes(t *testing.T) {
	t.Run("returns each trade code once", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		aci := testutil.MakeTradeCode("ACI")
		gp := testutil.MakeTradeCode("GP")
		testutil.CreateStockSeries(t, db, aci, 3)
		testutil.CreateStockSeries(t, db, gp, 2)

		req := httptest.NewRequest(http.MethodGet, "/trade_codes", nil)
		w := httptest.NewRecorder()

		handler.TradeCodes(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var resp model.TradeCodesResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(resp.TradeCodes) != 2 {
			t.Fatalf("Expected 2 trade codes, got %v", resp.TradeCodes)
		}

		got := map[string]bool{resp.TradeCodes[0]: true, resp.TradeCodes[1]: true}
		if !got[aci] || !got[gp] {
			t.Errorf("Expected %s and %s, got %v", aci, gp, resp.TradeCodes)
		}
	})

	t.Run("returns empty array for empty table", func(t *testing.T) {
		handler, _ := setupStockHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/trade_codes", nil)
		w := httptest.NewRecorder()

		handler.TradeCodes(w, req)

		if body := w.Body.String(); body != "{\"trade_codes\":[]}\n" {
			t.Errorf("Unexpected body: %q", body)
		}
	})

	t.Run("returns 500 when database is closed", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/trade_codes", nil)
		w := httptest.NewRecorder()

		handler.TradeCodes(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}

func TestStockHandler_Add(t *testing.T) {
	t.Run("inserted record is visible through filtered data", func(t *testing.T) {
		handler, _ := setupStockHandler(t)
		rec := testutil.NewStockRecord().WithVolume(4242).Record()

		req := testutil.NewJSONRequest(t, http.MethodPost, "/add", recordBody(rec))
		w := httptest.NewRecorder()

		handler.Add(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var msg model.MessageResponse
		if err := json.NewDecoder(w.Body).Decode(&msg); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if msg.Message != "Record added successfully" {
			t.Errorf("Unexpected message: %s", msg.Message)
		}

		req = testutil.NewRequestWithQueryParams(http.MethodGet, "/data", map[string]string{"trade_code": rec.TradeCode})
		w = httptest.NewRecorder()
		handler.Data(w, req)

		page := decodePage(t, w)
		if page.Total != 1 {
			t.Fatalf("Expected total 1, got %d", page.Total)
		}
		if page.Data[0] != rec {
			t.Errorf("Expected %+v, got %+v", rec, page.Data[0])
		}
	})

	t.Run("padded trade code is found by the trade code filter", func(t *testing.T) {
		handler, _ := setupStockHandler(t)
		rec := testutil.NewStockRecord().WithTradeCode("ACI").Record()

		body := recordBody(rec)
		body["trade_code"] = "  ACI "

		w := httptest.NewRecorder()
		handler.Add(w, testutil.NewJSONRequest(t, http.MethodPost, "/add", body))
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		for _, filter := range []string{"ACI", " ACI "} {
			req := testutil.NewRequestWithQueryParams(http.MethodGet, "/data", map[string]string{"trade_code": filter})
			w = httptest.NewRecorder()
			handler.Data(w, req)

			page := decodePage(t, w)
			if page.Total != 1 || page.Data[0] != rec {
				t.Errorf("Filter %q: expected %+v, got %+v", filter, rec, page)
			}
		}

		// Update and delete match on the trimmed key as well.
		body["volume"] = 77
		w = httptest.NewRecorder()
		handler.Delete(w, testutil.NewJSONRequest(t, http.MethodDelete, "/delete", body))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/data", map[string]string{"trade_code": "ACI"})
		w = httptest.NewRecorder()
		handler.Data(w, req)
		if page := decodePage(t, w); page.Total != 0 {
			t.Errorf("Expected record to be deleted, got total %d", page.Total)
		}
	})

	t.Run("allows duplicate keys", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		rec := testutil.NewStockRecord().Record()

		for range 2 {
			w := httptest.NewRecorder()
			handler.Add(w, testutil.NewJSONRequest(t, http.MethodPost, "/add", recordBody(rec)))
			if w.Code != http.StatusCreated {
				t.Fatalf("Expected 201, got %d", w.Code)
			}
		}

		if n := testutil.CountStockRows(t, db); n != 2 {
			t.Errorf("Expected 2 rows, got %d", n)
		}
	})

	t.Run("malformed bodies are rejected without mutation", func(t *testing.T) {
		handler, db := setupStockHandler(t)

		bodies := []any{
			`{"date":"2020-08-10"`,
			`not json`,
			map[string]any{"date": "2020-08-10", "trade_code": "ACI"},
			map[string]any{"date": "10/08/2020", "trade_code": "ACI", "high": 1, "low": 1, "open": 1, "close": 1, "volume": 1},
			map[string]any{"date": "2020-08-10", "trade_code": "ACI", "high": "x", "low": 1, "open": 1, "close": 1, "volume": 1},
			map[string]any{"date": "2020-08-10", "trade_code": "ACI", "high": 1, "low": 1, "open": 1, "close": 1, "volume": 1.5},
			map[string]any{"date": "2020-08-10", "trade_code": "  ", "high": 1, "low": 1, "open": 1, "close": 1, "volume": 1},
			map[string]any{"date": "2020-08-10", "trade_code": "ACI", "high": 1, "low": 1, "open": 1, "close": 1, "volume": -3},
		}

		for _, body := range bodies {
			w := httptest.NewRecorder()
			handler.Add(w, testutil.NewJSONRequest(t, http.MethodPost, "/add", body))

			if w.Code != http.StatusBadRequest {
				t.Errorf("Body %v: expected 400, got %d", body, w.Code)
			}
		}

		if n := testutil.CountStockRows(t, db); n != 0 {
			t.Errorf("Expected no rows after rejected requests, got %d", n)
		}
	})

	t.Run("returns 500 when database is closed", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		db.Close()

		w := httptest.NewRecorder()
		handler.Add(w, testutil.NewJSONRequest(t, http.MethodPost, "/add", recordBody(testutil.NewStockRecord().Record())))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}

func TestStockHandler_Update(t *testing.T) {
	t.Run("overwrites the matching record", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		original := testutil.NewStockRecord().Build(t, db)
		other := testutil.NewStockRecord().WithDate("2020-08-11").WithTradeCode(original.TradeCode).Build(t, db)

		updated := original
		updated.Open, updated.High, updated.Low, updated.Close = 1, 2, 0.5, 1.5
		updated.Volume = 7

		w := httptest.NewRecorder()
		handler.Update(w, testutil.NewJSONRequest(t, http.MethodPost, "/update", recordBody(updated)))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/data", map[string]string{"trade_code": original.TradeCode})
		w = httptest.NewRecorder()
		handler.Data(w, req)

		page := decodePage(t, w)
		if page.Total != 2 {
			t.Fatalf("Expected total 2, got %d", page.Total)
		}
		if page.Data[0] != updated {
			t.Errorf("Expected %+v, got %+v", updated, page.Data[0])
		}
		if page.Data[1] != other {
			t.Errorf("Expected untouched record %+v, got %+v", other, page.Data[1])
		}
	})

	t.Run("unknown key succeeds without changes", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		testutil.NewStockRecord().Build(t, db)

		w := httptest.NewRecorder()
		handler.Update(w, testutil.NewJSONRequest(t, http.MethodPost, "/update",
			recordBody(testutil.NewStockRecord().WithDate("1999-01-01").Record())))

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
		if n := testutil.CountStockRows(t, db); n != 1 {
			t.Errorf("Expected 1 row, got %d", n)
		}
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		handler, _ := setupStockHandler(t)

		w := httptest.NewRecorder()
		handler.Update(w, testutil.NewJSONRequest(t, http.MethodPost, "/update", `{}`))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestStockHandler_Delete(t *testing.T) {
	t.Run("removes only the matching record", func(t *testing.T) {
		handler, db := setupStockHandler(t)
		target := testutil.NewStockRecord().Build(t, db)
		keep := testutil.NewStockRecord().WithDate("2020-08-11").WithTradeCode(target.TradeCode).Build(t, db)

		w := httptest.NewRecorder()
		handler.Delete(w, testutil.NewJSONRequest(t, http.MethodDelete, "/delete", recordBody(target)))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/data", map[string]string{"trade_code": target.TradeCode})
		w = httptest.NewRecorder()
		handler.Data(w, req)

		page := decodePage(t, w)
		if page.Total != 1 || page.Data[0] != keep {
			t.Errorf("Expected only %+v to remain, got %+v", keep, page)
		}
	})

	t.Run("unknown key succeeds", func(t *testing.T) {
		handler, _ := setupStockHandler(t)

		w := httptest.NewRecorder()
		handler.Delete(w, testutil.NewJSONRequest(t, http.MethodDelete, "/delete", recordBody(testutil.NewStockRecord().Record())))

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})
}
