package domain

import (
	"context"
	"time"
)

// Predictor is the contract of the trained regression artifact: one ordered
// numeric vector in, one nightly price out. Implementations are immutable
// after load and safe for unlimited concurrent readers.
type Predictor interface {
	Predict(row []float64) (float64, error)
}

// BargainSource reads the pre-scored bargain dataset.
type BargainSource interface {
	Load(ctx context.Context) ([]BargainRecord, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// BoundaryProvider serves the neighbourhood boundary GeoJSON for map rendering.
type BoundaryProvider interface {
	FeatureCollection() ([]byte, error)
	NeighbourhoodNames() []string
}
