package board

import (
	"context"
	"errors"

	"github.com/i474232898/kiosk-feed/internal/slot"
)

var (
	// ErrNoMealData is returned by a MealProvider when nothing is published for the slot.
	ErrNoMealData = errors.New("no meal data published")

	// ErrCacheMiss is returned by a Cache when the key is absent or expired.
	ErrCacheMiss = errors.New("cache miss")
)

// ForecastProvider abstracts the point weather forecast source.
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, s slot.ForecastSlot) ([]ForecastRecord, error)
}

// MealProvider abstracts the school meal schedule source.
// FetchMeal returns the raw dish text of the requested meal.
type MealProvider interface {
	Name() string
	FetchMeal(ctx context.Context, s slot.MealSlot) (string, error)
}

// Cache is the contract the result caches (in-memory, Redis) must satisfy.
type Cache interface {
	Get(ctx context.Context, key string) (AggregatedResponse, error)
	Set(ctx context.Context, key string, resp AggregatedResponse) error
}
