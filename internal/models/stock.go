package models

import "time"

// StockRecord is the persisted state for one ticker symbol: the set of
// anonymized identity tokens that have liked it. The symbol is the natural
// key and is stored uppercase.
type StockRecord struct {
	Symbol    string    `json:"symbol"`
	Likers    []string  `json:"likers"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeCount is the size of the likers set.
func (s *StockRecord) LikeCount() int {
	return len(s.Likers)
}

// Quote is a transient price lookup result. Never persisted or cached;
// each request resolves afresh. Price 0 means the source was unavailable
// or returned no usable value.
type Quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Source string  `json:"source"`
}
