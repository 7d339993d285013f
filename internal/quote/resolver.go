package quote

import (
	"context"
	"fmt"
	"math"
	"time"

	"stockcheck/internal/models"
)

// FallbackPrice is reported when every provider fails. Price display is
// best-effort: a dead price source must never block the likes feature.
const FallbackPrice = 0

// Resolver turns a ticker symbol into a price by walking an ordered list
// of providers. Each provider gets one attempt under its own wall-clock
// timeout; the first positive finite price wins.
type Resolver struct {
	providers []Provider
	timeout   time.Duration
}

func NewResolver(timeout time.Duration, providers ...Provider) *Resolver {
	return &Resolver{providers: providers, timeout: timeout}
}

// Resolve never fails outward. On timeout the in-flight call is abandoned
// via context cancellation and the next provider (or the fallback) is used.
func (r *Resolver) Resolve(ctx context.Context, symbol string) models.Quote {
	for _, p := range r.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		price, err := p.Quote(attemptCtx, symbol)
		cancel()

		if err != nil {
			fmt.Printf("[QUOTE] %s lookup for %s failed: %v\n", p.Name(), symbol, err)
			continue
		}
		if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			fmt.Printf("[QUOTE] %s returned unusable price %f for %s\n", p.Name(), price, symbol)
			continue
		}

		return models.Quote{Symbol: symbol, Price: price, Source: p.Name()}
	}

	return models.Quote{Symbol: symbol, Price: FallbackPrice}
}
