package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"stockcheck/internal/models"
)

// fakeStore is an in-memory LikeStore with the same dedup semantics as the
// real backends.
type fakeStore struct {
	mu     sync.Mutex
	likers map[string]map[string]struct{}
	fail   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{likers: map[string]map[string]struct{}{}}
}

func (f *fakeStore) RegisterLikeAndCount(_ context.Context, symbol, liker string) (int, error) {
	if f.fail {
		return 0, errors.New("store unreachable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	set, ok := f.likers[symbol]
	if !ok {
		set = map[string]struct{}{}
		f.likers[symbol] = set
	}
	if liker != "" {
		set[liker] = struct{}{}
	}
	return len(set), nil
}

func (f *fakeStore) Ping(context.Context) error {
	if f.fail {
		return errors.New("store unreachable")
	}
	return nil
}

func (f *fakeStore) seed(symbol string, n int) {
	for i := 0; i < n; i++ {
		f.RegisterLikeAndCount(context.Background(), symbol, fmt.Sprintf("seed-%d", i))
	}
}

type fakeResolver struct {
	prices map[string]float64
}

func (f *fakeResolver) Resolve(_ context.Context, symbol string) models.Quote {
	return models.Quote{Symbol: symbol, Price: f.prices[symbol], Source: "fake"}
}

func newTestServer(store *fakeStore, prices map[string]float64) *Server {
	return &Server{store: store, resolver: &fakeResolver{prices: prices}}
}

func get(t *testing.T, s *Server, target, forwardedFor string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rr := httptest.NewRecorder()
	s.handleStockPrices(rr, req)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr, body
}

func TestStockPricesSingleSymbol(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store, map[string]float64{"GOOG": 173.25})

	rr, body := get(t, s, "/api/stock-prices?stock=goog", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		Stock    string  `json:"stock"`
		Price    float64 `json:"price"`
		Likes    *int    `json:"likes"`
		RelLikes *int    `json:"rel_likes"`
	}
	require.NoError(t, json.Unmarshal(body["stockData"], &data))

	require.Equal(t, "GOOG", data.Stock, "symbol must be uppercased")
	require.Equal(t, 173.25, data.Price)
	require.NotNil(t, data.Likes)
	require.Equal(t, 0, *data.Likes)
	require.Nil(t, data.RelLikes, "single-symbol response carries likes, not rel_likes")
}

func TestStockPricesLikeIdempotent(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store, map[string]float64{})

	likesOf := func(forwardedFor string) int {
		_, body := get(t, s, "/api/stock-prices?stock=GOOG&like=true", forwardedFor)
		var data struct {
			Likes int `json:"likes"`
		}
		require.NoError(t, json.Unmarshal(body["stockData"], &data))
		return data.Likes
	}

	require.Equal(t, 1, likesOf("203.0.113.7"))
	require.Equal(t, 1, likesOf("203.0.113.7"), "repeat like from the same address is a no-op")
	require.Equal(t, 2, likesOf("203.0.113.8"), "a distinct address counts")
}

func TestStockPricesTwoSymbols(t *testing.T) {
	store := newFakeStore()
	store.seed("GOOG", 3)
	store.seed("MSFT", 1)
	s := newTestServer(store, map[string]float64{"GOOG": 173.25, "MSFT": 410.10})

	rr, body := get(t, s, "/api/stock-prices?stock=GOOG&stock=MSFT", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data []struct {
		Stock    string  `json:"stock"`
		Price    float64 `json:"price"`
		Likes    *int    `json:"likes"`
		RelLikes *int    `json:"rel_likes"`
	}
	require.NoError(t, json.Unmarshal(body["stockData"], &data))
	require.Len(t, data, 2)

	require.Equal(t, "GOOG", data[0].Stock, "entries keep request order")
	require.Equal(t, "MSFT", data[1].Stock)
	require.Equal(t, 173.25, data[0].Price)
	require.Equal(t, 410.10, data[1].Price)

	require.NotNil(t, data[0].RelLikes)
	require.NotNil(t, data[1].RelLikes)
	require.Equal(t, 2, *data[0].RelLikes)
	require.Equal(t, -2, *data[1].RelLikes)
	require.Zero(t, *data[0].RelLikes+*data[1].RelLikes, "relative likes always cancel out")

	require.Nil(t, data[0].Likes, "absolute counts never leak in the two-symbol case")
	require.Nil(t, data[1].Likes)
}

func TestStockPricesValidation(t *testing.T) {
	s := newTestServer(newFakeStore(), nil)

	rr, body := get(t, s, "/api/stock-prices", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, string(body["error"]), "stock is required")

	rr, body = get(t, s, "/api/stock-prices?stock=A&stock=B&stock=C", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, string(body["error"]), "only 1 or 2 stocks supported")
}

func TestStockPricesLedgerUnavailable(t *testing.T) {
	store := newFakeStore()
	store.fail = true
	s := newTestServer(store, map[string]float64{"GOOG": 173.25})

	rr, body := get(t, s, "/api/stock-prices?stock=GOOG", "")
	require.Equal(t, http.StatusBadGateway, rr.Code)
	require.Contains(t, string(body["error"]), "failed to look up stock")
}
