package domain

import "errors"

var (
	// ErrModelNotLoaded is returned when the model or column schema artifact
	// failed to load at startup; the service keeps serving in degraded mode
	ErrModelNotLoaded = errors.New("model or column schema not loaded")

	// ErrInvalidQuery is returned when property query fields are invalid
	ErrInvalidQuery = errors.New("invalid property query")

	// ErrArtifactCorrupt is returned when an artifact file is missing or unreadable
	ErrArtifactCorrupt = errors.New("artifact file missing or corrupt")

	// ErrSchemaMismatch is returned when a feature row does not line up with the column schema
	ErrSchemaMismatch = errors.New("feature row does not match column schema")

	// ErrDatasetUnavailable is returned when the bargain dataset cannot be read
	ErrDatasetUnavailable = errors.New("bargain dataset unavailable")

	// ErrBoundariesUnavailable is returned when the neighbourhood boundary file failed to load
	ErrBoundariesUnavailable = errors.New("neighbourhood boundaries not loaded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
