package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/madridpricer/backend/internal/domain"
)

// MockPredictor is a mock implementation of domain.Predictor
type MockPredictor struct {
	result  float64
	err     error
	lastRow []float64
	nCalls  int
}

func (m *MockPredictor) Predict(row []float64) (float64, error) {
	m.nCalls++
	m.lastRow = row
	if m.err != nil {
		return 0, m.err
	}
	return m.result, nil
}

func newTestService(t *testing.T, model domain.Predictor) *PredictionService {
	t.Helper()
	translator, err := NewTranslator(testSchema())
	if err != nil {
		t.Fatal(err)
	}
	return NewPredictionService(model, translator)
}

func TestPredictionServiceReady(t *testing.T) {
	t.Run("ready with both artifacts", func(t *testing.T) {
		svc := newTestService(t, &MockPredictor{})
		if !svc.Ready() {
			t.Error("Ready() = false, want true")
		}
	})

	t.Run("not ready without a model", func(t *testing.T) {
		svc := newTestService(t, nil)
		if svc.Ready() {
			t.Error("Ready() = true, want false")
		}
	})

	t.Run("not ready without a translator", func(t *testing.T) {
		svc := NewPredictionService(&MockPredictor{}, nil)
		if svc.Ready() {
			t.Error("Ready() = true, want false")
		}
	})
}

func TestPredictPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ErrModelNotLoaded in degraded mode", func(t *testing.T) {
		svc := newTestService(t, nil)
		_, err := svc.PredictPrice(ctx, centroQuery())
		if !errors.Is(err, domain.ErrModelNotLoaded) {
			t.Errorf("error = %v, want ErrModelNotLoaded", err)
		}
	})

	t.Run("returns error for nil query", func(t *testing.T) {
		svc := newTestService(t, &MockPredictor{})
		_, err := svc.PredictPrice(ctx, nil)
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("error = %v, want ErrInvalidQuery", err)
		}
	})

	t.Run("rejects unknown neighbourhood", func(t *testing.T) {
		svc := newTestService(t, &MockPredictor{})
		q := centroQuery()
		q.Neighbourhood = "Atlantis"
		_, err := svc.PredictPrice(ctx, q)
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("error = %v, want ErrInvalidQuery", err)
		}
	})

	t.Run("rejects unknown room type", func(t *testing.T) {
		svc := newTestService(t, &MockPredictor{})
		q := centroQuery()
		q.RoomType = "Treehouse"
		_, err := svc.PredictPrice(ctx, q)
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("error = %v, want ErrInvalidQuery", err)
		}
	})

	t.Run("rounds the prediction to 2 decimals in EUR", func(t *testing.T) {
		model := &MockPredictor{result: 123.456789}
		svc := newTestService(t, model)

		result, err := svc.PredictPrice(ctx, centroQuery())
		if err != nil {
			t.Fatalf("PredictPrice() error = %v", err)
		}
		if result.PredictedPriceEuros != 123.46 {
			t.Errorf("PredictedPriceEuros = %v, want 123.46", result.PredictedPriceEuros)
		}
		if result.Currency != "EUR" {
			t.Errorf("Currency = %q, want EUR", result.Currency)
		}
		if len(model.lastRow) != len(testSchema()) {
			t.Errorf("model received %d features, want %d", len(model.lastRow), len(testSchema()))
		}
	})

	t.Run("wraps model failures as bad requests", func(t *testing.T) {
		model := &MockPredictor{err: errors.New("feature out of range")}
		svc := newTestService(t, model)

		_, err := svc.PredictPrice(ctx, centroQuery())
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("error = %v, want ErrInvalidQuery wrapping the model failure", err)
		}
	})

	t.Run("end-to-end Centro scenario", func(t *testing.T) {
		model := &MockPredictor{result: 98.7}
		svc := newTestService(t, model)

		result, err := svc.PredictPrice(ctx, centroQuery())
		if err != nil {
			t.Fatalf("PredictPrice() error = %v", err)
		}
		if result.PredictedPriceEuros < 0 {
			t.Errorf("PredictedPriceEuros = %v, want nonnegative", result.PredictedPriceEuros)
		}
	})
}
