package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/mmcloughlin/geohash"

	"github.com/madridpricer/backend/internal/domain"
)

const (
	bargainCacheKey = "bargains:snapshot"

	// geohashPrecision 6 gives ~1.2km x 0.6km cells, enough to cluster
	// markers per block group on the investor map
	geohashPrecision = 6
)

// BargainServiceConfig holds configuration for the bargain service
type BargainServiceConfig struct {
	CacheTTL time.Duration
}

// BargainService serves underpriced-listing opportunities for the investor
// view. The dataset is batch-refreshed offline, so a snapshot is cached
// after the first read and staleness within the TTL is expected.
type BargainService struct {
	source   domain.BargainSource
	cache    domain.CacheRepository
	cacheTTL time.Duration
}

// NewBargainService creates a new bargain service with dependencies.
func NewBargainService(source domain.BargainSource, cache domain.CacheRepository, config BargainServiceConfig) *BargainService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}
	return &BargainService{
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Opportunities returns listings whose predicted price exceeds the asking
// price (positive residual), sorted by residual descending. limit <= 0
// means no limit; minResidual filters out thin margins.
func (s *BargainService) Opportunities(ctx context.Context, limit int, minResidual float64) ([]domain.Opportunity, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Opportunity, 0, len(snapshot))
	for _, op := range snapshot {
		if op.Residual >= minResidual {
			out = append(out, op)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// snapshot returns the cached opportunity set, loading and scoring the
// dataset on the first call of a cache window.
func (s *BargainService) snapshot(ctx context.Context) ([]domain.Opportunity, error) {
	if cached, err := s.cache.Get(ctx, bargainCacheKey); err == nil {
		if ops, ok := cached.([]domain.Opportunity); ok {
			return ops, nil
		}
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		log.Printf("[BARGAIN] Cache read failed: %v", err)
	}

	records, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	ops := scoreOpportunities(records)
	if err := s.cache.Set(ctx, bargainCacheKey, ops, s.cacheTTL); err != nil {
		log.Printf("[BARGAIN] Cache write failed: %v", err)
	}
	log.Printf("[BARGAIN] Loaded %d records, %d opportunities", len(records), len(ops))
	return ops, nil
}

// scoreOpportunities keeps records with a positive residual
// (predicted minus price) and tags each with its geohash cell.
func scoreOpportunities(records []domain.BargainRecord) []domain.Opportunity {
	ops := make([]domain.Opportunity, 0, len(records))
	for _, rec := range records {
		residual := rec.PredictedPrice - rec.Price
		if residual <= 0 {
			continue
		}
		ops = append(ops, domain.Opportunity{
			ListingURL:     rec.ListingURL,
			Price:          rec.Price,
			PredictedPrice: rec.PredictedPrice,
			Residual:       residual,
			Latitude:       rec.Latitude,
			Longitude:      rec.Longitude,
			Geohash:        geohash.EncodeWithPrecision(rec.Latitude, rec.Longitude, geohashPrecision),
		})
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Residual > ops[j].Residual })
	return ops
}
