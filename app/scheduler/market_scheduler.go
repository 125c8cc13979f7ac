// Package scheduler
package scheduler

import (
	"context"
	"io"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/metalmind-app/metalmind/config"
	"github.com/metalmind-app/metalmind/models"
	"github.com/metalmind-app/metalmind/repository"
	"github.com/metalmind-app/metalmind/utils"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DeltaRange bounds the uniform random price move for one category
type DeltaRange struct {
	Min float64
	Max float64
}

// DefaultDeltaStrategy returns the per-category move ranges of the market
// simulator. An unknown category moves by zero.
func DefaultDeltaStrategy() map[string]DeltaRange {
	return map[string]DeltaRange{
		models.MaterialTypeDKP:    {Min: -2, Max: 2},
		models.MaterialTypeHRP:    {Min: -2, Max: 2},
		models.MaterialTypeGal:    {Min: -2.5, Max: 2.5},
		models.MaterialTypeBoya:   {Min: -0.05, Max: 0.05},
		models.MaterialTypeCivata: {Min: -0.5, Max: 0.5},
		models.MaterialTypeDubel:  {Min: -0.25, Max: 0.25},
	}
}

// MarketScheduler periodically perturbs material prices to simulate
// commodity market movement.
type MarketScheduler struct {
	materialRepo repository.MaterialRepository
	strategy     map[string]DeltaRange
	interval     time.Duration
	logger       *log.Logger
	logCloser    io.Closer

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMarketScheduler creates a new market scheduler. The random source is
// injectable for deterministic tests; pass nil for a time-seeded one.
func NewMarketScheduler(
	materialRepo repository.MaterialRepository,
	strategy map[string]DeltaRange,
	marketCfg config.MarketConfig,
	logCfg config.LoggingConfig,
	rng *rand.Rand,
) *MarketScheduler {
	interval := marketCfg.SimulatorInterval
	if interval <= 0 {
		interval = time.Hour
	}
	if strategy == nil {
		strategy = DefaultDeltaStrategy()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &MarketScheduler{
		materialRepo: materialRepo,
		strategy:     strategy,
		interval:     interval,
		rng:          rng,
	}
	s.initLogger(marketCfg.LogPath, logCfg)

	return s
}

// initLogger configures a logger writing to stdout and a rotated file
func (s *MarketScheduler) initLogger(logPath string, logCfg config.LoggingConfig) {
	if logPath == "" {
		s.logger = log.New(os.Stdout, "market ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
		return
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		s.logger = log.New(os.Stdout, "market ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
		s.logger.Printf("failed to create log directory: %v", err)
		return
	}

	rotated := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logCfg.MaxSize,
		MaxBackups: logCfg.MaxBackups,
		MaxAge:     logCfg.MaxAge,
		Compress:   logCfg.Compress,
	}
	s.logCloser = rotated
	mw := io.MultiWriter(os.Stdout, rotated)
	s.logger = log.New(mw, "market ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
}

// Start launches the scheduler loop in a background goroutine and returns a stop function
func (s *MarketScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()

	return func() {
		cancel()
		if s.logCloser != nil {
			_ = s.logCloser.Close()
		}
	}
}

// RunOnce executes a single market update pass. Each row is written on
// its own; the first error aborts the remainder of the pass and the next
// tick starts fresh. Readers may observe a partially updated board
// between row writes.
func (s *MarketScheduler) RunOnce(ctx context.Context) {
	s.logger.Println("--- market update started ---")

	materials, err := s.materialRepo.ListAll(ctx)
	if err != nil {
		s.logger.Printf("market update aborted: failed to read materials: %v", err)
		return
	}

	updated := 0
	for _, m := range materials {
		newPrice := s.NextPrice(m.Type, m.Price)

		if err := s.materialRepo.UpdatePrice(ctx, m.ID, newPrice, utils.UTCNow()); err != nil {
			s.logger.Printf("market update aborted at material %d (%s): %v", m.ID, m.Name, err)
			return
		}
		updated++
	}

	s.logger.Printf("--- market update finished: %d material prices updated ---", updated)
}

// NextPrice applies a category-bounded random move to a price and rounds
// to 3 decimals. An unknown category keeps its price.
func (s *MarketScheduler) NextPrice(materialType string, price float64) float64 {
	delta := 0.0
	if r, ok := s.strategy[materialType]; ok {
		s.mu.Lock()
		delta = r.Min + s.rng.Float64()*(r.Max-r.Min)
		s.mu.Unlock()
	}
	return math.Round((price+delta)*1000) / 1000
}
