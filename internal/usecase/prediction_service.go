package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/madridpricer/backend/internal/domain"
)

// PredictionService turns property queries into price estimates. It holds
// only the two read-only artifacts loaded at startup, so one instance is
// safe for unlimited concurrent requests.
type PredictionService struct {
	model      domain.Predictor
	translator *Translator
}

// NewPredictionService creates the service. Either dependency may be nil
// when the corresponding artifact failed to load; the service then answers
// every request with ErrModelNotLoaded instead of refusing to start.
func NewPredictionService(model domain.Predictor, translator *Translator) *PredictionService {
	return &PredictionService{
		model:      model,
		translator: translator,
	}
}

// Ready reports whether both artifacts loaded.
func (s *PredictionService) Ready() bool {
	return s.model != nil && s.translator != nil
}

// PredictPrice validates the query, translates it into the model's feature
// row and returns the predicted nightly price rounded to 2 decimals.
func (s *PredictionService) PredictPrice(ctx context.Context, q *domain.PropertyQuery) (*domain.PredictionResult, error) {
	if !s.Ready() {
		return nil, domain.ErrModelNotLoaded
	}
	if q == nil {
		return nil, fmt.Errorf("%w: nil query", domain.ErrInvalidQuery)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	row := s.translator.Transform(q)
	vec, err := s.translator.Vector(row)
	if err != nil {
		return nil, err
	}

	price, err := s.model.Predict(vec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
	}

	return &domain.PredictionResult{
		PredictedPriceEuros: math.Round(price*100) / 100,
		Currency:            "EUR",
	}, nil
}
