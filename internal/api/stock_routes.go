package api

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"stockcheck/internal/identity"
)

type stockData struct {
	Stock    string  `json:"stock"`
	Price    float64 `json:"price"`
	Likes    *int    `json:"likes,omitempty"`
	RelLikes *int    `json:"rel_likes,omitempty"`
}

type singleResponse struct {
	StockData stockData `json:"stockData"`
}

type pairResponse struct {
	StockData [2]stockData `json:"stockData"`
}

// handleStockPrices answers GET /api/stock-prices?stock=SYM[&stock=SYM2][&like=true].
// One symbol reports its absolute like count; two symbols report only the
// signed difference, in the order the symbols were given.
func (s *Server) handleStockPrices(w http.ResponseWriter, r *http.Request) {
	symbols := r.URL.Query()["stock"]
	if len(symbols) == 0 || symbols[0] == "" {
		writeError(w, http.StatusBadRequest, "stock is required")
		return
	}
	if len(symbols) > 2 {
		writeError(w, http.StatusBadRequest, "only 1 or 2 stocks supported")
		return
	}
	for i, sym := range symbols {
		symbols[i] = strings.ToUpper(strings.TrimSpace(sym))
	}

	// The raw address is hashed here and discarded; only the token travels
	// further. No token means no like gets recorded.
	liker := ""
	if r.URL.Query().Get("like") == "true" {
		liker = identity.Anonymize(identity.ClientIP(r))
	}

	// Ledger and resolver calls are independent per symbol; run all of them
	// concurrently so a two-symbol request costs one round-trip of each.
	likes := make([]int, len(symbols))
	prices := make([]float64, len(symbols))

	g, ctx := errgroup.WithContext(r.Context())
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			n, err := s.store.RegisterLikeAndCount(ctx, sym, liker)
			if err != nil {
				return fmt.Errorf("ledger %s: %w", sym, err)
			}
			likes[i] = n
			return nil
		})
		g.Go(func() error {
			prices[i] = s.resolver.Resolve(ctx, sym).Price
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Printf("[API] stock lookup failed: %v\n", err)
		writeError(w, http.StatusBadGateway, "failed to look up stock")
		return
	}

	if len(symbols) == 1 {
		writeJSON(w, http.StatusOK, singleResponse{
			StockData: stockData{Stock: symbols[0], Price: prices[0], Likes: &likes[0]},
		})
		return
	}

	relA := likes[0] - likes[1]
	relB := likes[1] - likes[0]
	writeJSON(w, http.StatusOK, pairResponse{
		StockData: [2]stockData{
			{Stock: symbols[0], Price: prices[0], RelLikes: &relA},
			{Stock: symbols[1], Price: prices[1], RelLikes: &relB},
		},
	})
}
