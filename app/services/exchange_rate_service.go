package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rate provenance values reported alongside a USD/TRY quote
const (
	RateSourceLive     = "live"
	RateSourceCache    = "cache"
	RateSourceFallback = "fallback"
)

var ErrRateUnavailable = errors.New("exchange rate provider unavailable")

// RateQuote is a USD/TRY rate with its provenance
type RateQuote struct {
	Rate   float64
	Source string
}

// ExchangeRateService quotes the USD/TRY pair. Implementations never fail:
// when the provider is down the last cached value is served, and when there
// is no cache either, the configured default.
type ExchangeRateService interface {
	USDTRY(ctx context.Context) RateQuote
}

// ExchangeRateServiceImpl fetches the live rate over HTTP with a bounded
// timeout and keeps the last good value in redis.
type ExchangeRateServiceImpl struct {
	apiURL      string
	httpClient  *http.Client
	defaultRate float64
	cacheTTL    time.Duration
	redisClient *redis.Client
	cachePrefix string
}

// NewExchangeRateService creates a new exchange rate service. redisClient
// may be nil; caching is then skipped and failures go straight to the
// default rate.
func NewExchangeRateService(apiURL string, timeout time.Duration, defaultRate float64, cacheTTL time.Duration, redisClient *redis.Client, cachePrefix string) ExchangeRateService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ExchangeRateServiceImpl{
		apiURL:      apiURL,
		httpClient:  &http.Client{Timeout: timeout},
		defaultRate: defaultRate,
		cacheTTL:    cacheTTL,
		redisClient: redisClient,
		cachePrefix: cachePrefix,
	}
}

type exchangeRateResp struct {
	Rates map[string]float64 `json:"rates"`
}

// USDTRY returns the current USD/TRY rate. Order of preference: live
// provider, cached last good value, configured default.
func (s *ExchangeRateServiceImpl) USDTRY(ctx context.Context) RateQuote {
	rate, err := s.fetchLive(ctx)
	if err == nil {
		s.cacheRate(ctx, rate)
		return RateQuote{Rate: rate, Source: RateSourceLive}
	}

	log.Printf("exchange rate provider failed: %v", err)

	if cached, ok := s.cachedRate(ctx); ok {
		return RateQuote{Rate: cached, Source: RateSourceCache}
	}

	return RateQuote{Rate: s.defaultRate, Source: RateSourceFallback}
}

func (s *ExchangeRateServiceImpl) fetchLive(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrRateUnavailable, resp.StatusCode)
	}

	var out exchangeRateResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}

	rate, ok := out.Rates["TRY"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: TRY rate missing from response", ErrRateUnavailable)
	}

	return rate, nil
}

func (s *ExchangeRateServiceImpl) cacheKey() string {
	return s.cachePrefix + "fx:usd_try"
}

func (s *ExchangeRateServiceImpl) cacheRate(ctx context.Context, rate float64) {
	if s.redisClient == nil {
		return
	}
	value := strconv.FormatFloat(rate, 'f', -1, 64)
	if err := s.redisClient.Set(ctx, s.cacheKey(), value, s.cacheTTL).Err(); err != nil {
		log.Printf("failed to cache exchange rate: %v", err)
	}
}

func (s *ExchangeRateServiceImpl) cachedRate(ctx context.Context) (float64, bool) {
	if s.redisClient == nil {
		return 0, false
	}
	value, err := s.redisClient.Get(ctx, s.cacheKey()).Result()
	if err != nil {
		return 0, false
	}
	rate, err := strconv.ParseFloat(value, 64)
	if err != nil || rate <= 0 {
		return 0, false
	}
	return rate, true
}

// StaticRateService always answers with a fixed rate. Used in tests and
// when the provider is disabled outright.
type StaticRateService struct {
	Rate   float64
	Source string
}

func (s *StaticRateService) USDTRY(ctx context.Context) RateQuote {
	source := s.Source
	if source == "" {
		source = RateSourceFallback
	}
	return RateQuote{Rate: s.Rate, Source: source}
}
