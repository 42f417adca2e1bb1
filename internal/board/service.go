package board

import (
	"context"
	"errors"
	"log"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/kiosk-feed/internal/metrics"
	"github.com/i474232898/kiosk-feed/internal/slot"
)

// CacheKey is the single key the aggregated document is cached under.
const CacheKey = "weather_data"

// DefaultFetchTimeout bounds each upstream fetch.
const DefaultFetchTimeout = 10 * time.Second

// ServiceConfig carries the Service's collaborators that have sensible defaults.
type ServiceConfig struct {
	Location     *time.Location // zone the slot resolver runs in; defaults to time.Local
	Clock        clock.Clock    // defaults to the wall clock
	FetchTimeout time.Duration  // defaults to DefaultFetchTimeout
}

// Service orchestrates the weather and meal providers and caches the merged document.
type Service struct {
	cache    Cache
	forecast ForecastProvider
	meal     MealProvider

	loc          *time.Location
	clock        clock.Clock
	fetchTimeout time.Duration
}

// NewService creates a new Service.
func NewService(cache Cache, forecast ForecastProvider, meal MealProvider, cfg ServiceConfig) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.NewClock()
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	return &Service{
		cache:        cache,
		forecast:     forecast,
		meal:         meal,
		loc:          cfg.Location,
		clock:        cfg.Clock,
		fetchTimeout: cfg.FetchTimeout,
	}
}

// GetAggregated returns the cached document while it is fresh, otherwise
// builds, caches and returns a new one. It never fails; anything the
// providers could not deliver is replaced by a degraded default.
//
// Concurrent misses may both rebuild and both write. The last write wins,
// and either result is equally valid for the cache window.
func (s *Service) GetAggregated(ctx context.Context) AggregatedResponse {
	resp, err := s.cache.Get(ctx, CacheKey)
	if err == nil {
		metrics.RecordCacheLookup(true)
		return resp
	}
	if !errors.Is(err, ErrCacheMiss) {
		log.Printf("WARN: cache lookup failed, rebuilding: %v", err)
	}
	metrics.RecordCacheLookup(false)

	return s.Refresh(ctx)
}

// Refresh builds a fresh document and stores it in the cache.
func (s *Service) Refresh(ctx context.Context) AggregatedResponse {
	now := s.clock.Now().In(s.loc)
	slots := slot.Resolve(now)
	cycle := uuid.NewString()

	log.Printf("DEBUG: [%s] aggregating at %s: forecast %s/%s, meal %s %s",
		cycle, now.Format(time.RFC3339), slots.Forecast.Date, slots.Forecast.Time, slots.Meal.Code, slots.Meal.Date)

	var (
		current CurrentConditions
		hourly  []HourlyForecastEntry
		menu    MealMenu
	)

	// Neither fetch returns an error; each degrades on its own.
	var g errgroup.Group
	g.Go(func() error {
		current, hourly = s.fetchWeather(ctx, cycle, slots)
		return nil
	})
	g.Go(func() error {
		menu = s.fetchMeal(ctx, cycle, slots.Meal)
		return nil
	})
	_ = g.Wait()

	resp := AggregatedResponse{
		Current: current,
		Hourly:  hourly,
		Meal:    menu,
	}

	if err := s.cache.Set(ctx, CacheKey, resp); err != nil {
		log.Printf("WARN: [%s] failed to cache aggregated document: %v", cycle, err)
	}
	return resp
}

// upstreamContext detaches ctx from its caller's cancellation: an issued
// fetch runs until it completes or its own timeout fires.
func (s *Service) upstreamContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
}

func (s *Service) fetchWeather(ctx context.Context, cycle string, slots slot.Slots) (CurrentConditions, []HourlyForecastEntry) {
	current, hourly := SeedForecast(slots.Hours)
	if s.forecast == nil {
		log.Printf("ERROR: [%s] no forecast provider configured", cycle)
		return current, hourly
	}

	ctx, cancel := s.upstreamContext(ctx)
	defer cancel()

	start := time.Now()
	records, err := s.forecast.FetchForecast(ctx, slots.Forecast)
	if err != nil {
		log.Printf("WARN: [%s] provider %s forecast failed: %v", cycle, s.forecast.Name(), err)
		metrics.RecordUpstream(s.forecast.Name(), metrics.OutcomeError, time.Since(start))
		return current, hourly
	}
	metrics.RecordUpstream(s.forecast.Name(), metrics.OutcomeOK, time.Since(start))

	ApplyForecastRecords(&current, hourly, records)
	return current, hourly
}

func (s *Service) fetchMeal(ctx context.Context, cycle string, ms slot.MealSlot) MealMenu {
	menu := MealMenu{MealType: ms.Label}
	if s.meal == nil {
		log.Printf("ERROR: [%s] no meal provider configured", cycle)
		menu.Lines = []string{MenuRequestFailed}
		return menu
	}

	ctx, cancel := s.upstreamContext(ctx)
	defer cancel()

	start := time.Now()
	raw, err := s.meal.FetchMeal(ctx, ms)
	switch {
	case errors.Is(err, ErrNoMealData):
		log.Printf("INFO: [%s] provider %s has no %s menu for %s", cycle, s.meal.Name(), ms.Code, ms.Date)
		metrics.RecordUpstream(s.meal.Name(), metrics.OutcomeDegraded, time.Since(start))
		menu.Lines = []string{MenuNoData}
		return menu
	case err != nil:
		log.Printf("WARN: [%s] provider %s meal failed: %v", cycle, s.meal.Name(), err)
		metrics.RecordUpstream(s.meal.Name(), metrics.OutcomeError, time.Since(start))
		menu.Lines = []string{MenuRequestFailed}
		return menu
	}
	metrics.RecordUpstream(s.meal.Name(), metrics.OutcomeOK, time.Since(start))

	menu.Lines = CleanMenu(raw)
	if len(menu.Lines) == 0 {
		menu.Lines = []string{MenuNoData}
	}
	return menu
}
