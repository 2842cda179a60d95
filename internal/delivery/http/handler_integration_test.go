package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/madridpricer/backend/config"
	"github.com/madridpricer/backend/internal/domain"
	"github.com/madridpricer/backend/internal/infrastructure/cache"
	"github.com/madridpricer/backend/internal/infrastructure/dataset"
	"github.com/madridpricer/backend/internal/infrastructure/geodata"
	"github.com/madridpricer/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	exitCode := m.Run()

	os.Exit(exitCode)
}

// modelSchema mirrors a trained model's column artifact: every translator
// column plus the non-reference indicator columns.
func modelSchema() domain.ColumnSchema {
	return domain.ColumnSchema{
		"latitude", "longitude", "accommodates", "bedrooms", "beds", "bathrooms",
		"has_ac", "has_pool", "has_elevator", "has_parking",
		"host_is_superhost", "host_has_profile_pic", "host_identity_verified",
		"instant_bookable", "has_availability",
		"host_response_time", "host_response_rate", "host_acceptance_rate",
		"availability_30", "availability_60", "availability_90", "availability_365",
		"days_since_host_since",
		"has_reviews", "number_of_reviews", "reviews_per_month",
		"days_since_first_review", "days_since_last_review",
		"review_scores_rating", "review_scores_accuracy", "review_scores_cleanliness",
		"review_scores_checkin", "review_scores_communication",
		"review_scores_location", "review_scores_value",
		"distance_to_sol_km", "distance_to_bernabeu_km", "distance_to_metropolitano_km",
		"distance_to_atocha_km", "distance_to_aeropuerto_km",
		"accommodates_per_bed", "bathrooms_per_person", "occupancy_rate_30d",
		"neighbourhood_group_cleansed_Centro", "neighbourhood_group_cleansed_Salamanca",
		"room_type_Private room", "room_type_Shared room", "room_type_Hotel room",
	}
}

// stubModel answers with a fixed price after verifying the feature width.
type stubModel struct {
	price float64
	width int
}

func (m *stubModel) Predict(features []float64) (float64, error) {
	if len(features) != m.width {
		return 0, fmt.Errorf("expected %d features, got %d", m.width, len(features))
	}
	return m.price, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:8501", "https://madridpricer.app"},
		},
		RateLimit: config.RateLimitConfig{
			PerIP: 0, // disabled for tests
		},
	}
}

// writeBargainsCSV writes a small pre-scored dataset to a temp file.
func writeBargainsCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bargains.csv")
	content := strings.Join([]string{
		"listing_url,price,predicted_price,latitude,longitude",
		"https://airbnb.com/rooms/1,60,145,40.4168,-3.7038",
		"https://airbnb.com/rooms/2,100,140,40.4530,-3.6883",
		"https://airbnb.com/rooms/3,200,150,40.4065,-3.6908",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write bargains CSV: %v", err)
	}
	return path
}

// writeBoundariesGeoJSON writes a minimal neighbourhood FeatureCollection.
func writeBoundariesGeoJSON(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "neighbourhoods.geojson")
	content := `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"neighbourhood": "Sol", "neighbourhood_group": "Centro"},
				"geometry": {"type": "Polygon", "coordinates": [[[-3.71,40.41],[-3.70,40.41],[-3.70,40.42],[-3.71,40.41]]]}
			}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write GeoJSON: %v", err)
	}
	return path
}

// setupTestRouter creates a router backed by a stub model and temp data files.
func setupTestRouter(t *testing.T, predictedPrice float64) *gin.Engine {
	t.Helper()

	schema := modelSchema()
	translator, err := usecase.NewTranslator(schema)
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}
	model := &stubModel{price: predictedPrice, width: len(schema)}
	prediction := usecase.NewPredictionService(model, translator)

	source := dataset.NewBargainCSVRepository(writeBargainsCSV(t))
	bargains := usecase.NewBargainService(source, cache.NewMemoryCache(), usecase.BargainServiceConfig{
		CacheTTL: time.Minute,
	})

	boundaries, err := geodata.Load(writeBoundariesGeoJSON(t))
	if err != nil {
		t.Fatalf("geodata.Load() error = %v", err)
	}

	handler := NewHandler(prediction, bargains, boundaries)
	return SetupRouter(testConfig(), handler)
}

// setupDegradedRouter creates a router whose model artifacts failed to load.
func setupDegradedRouter(t *testing.T) *gin.Engine {
	t.Helper()

	prediction := usecase.NewPredictionService(nil, nil)
	source := dataset.NewBargainCSVRepository(filepath.Join(t.TempDir(), "missing.csv"))
	bargains := usecase.NewBargainService(source, cache.NewMemoryCache(), usecase.BargainServiceConfig{})

	handler := NewHandler(prediction, bargains, nil)
	return SetupRouter(testConfig(), handler)
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy with model loaded", func(t *testing.T) {
		router := setupTestRouter(t, 100)

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["model_loaded"] != true {
			t.Errorf("model_loaded = %v, want true", response["model_loaded"])
		}
	})

	t.Run("stays healthy in degraded mode", func(t *testing.T) {
		router := setupDegradedRouter(t)

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["model_loaded"] != false {
			t.Errorf("model_loaded = %v, want false", response["model_loaded"])
		}
	})

	t.Run("attaches a request id", func(t *testing.T) {
		router := setupTestRouter(t, 100)

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Header().Get("X-Request-ID") == "" {
			t.Error("X-Request-ID header is empty, want a generated id")
		}
	})
}

func TestPredictEndpoint(t *testing.T) {
	t.Run("predicts a price for a Centro apartment", func(t *testing.T) {
		router := setupTestRouter(t, 95.456)

		body := `{
			"neighbourhood": "Centro",
			"room_type": "Entire home/apt",
			"latitude": 40.4168,
			"longitude": -3.7038,
			"accommodates": 4,
			"bedrooms": 2,
			"beds": 2,
			"bathrooms": 1.0,
			"number_of_reviews": 0
		}`
		req, _ := http.NewRequest("POST", "/api/v1/predict", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var result domain.PredictionResult
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if result.PredictedPriceEuros != 95.46 {
			t.Errorf("predicted_price_euros = %v, want 95.46", result.PredictedPriceEuros)
		}
		if result.Currency != "EUR" {
			t.Errorf("currency = %s, want EUR", result.Currency)
		}
	})

	t.Run("rejects a body missing required fields", func(t *testing.T) {
		router := setupTestRouter(t, 100)

		req, _ := http.NewRequest("POST", "/api/v1/predict", strings.NewReader(`{"neighbourhood": "Centro"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects an unknown neighbourhood", func(t *testing.T) {
		router := setupTestRouter(t, 100)

		body := `{
			"neighbourhood": "Lavapies",
			"room_type": "Entire home/apt",
			"latitude": 40.41,
			"longitude": -3.70,
			"accommodates": 2,
			"beds": 1
		}`
		req, _ := http.NewRequest("POST", "/api/v1/predict", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d, body: %s", w.Code, http.StatusBadRequest, w.Body.String())
		}
	})

	t.Run("returns 503 when the model is not loaded", func(t *testing.T) {
		router := setupDegradedRouter(t)

		body := `{
			"neighbourhood": "Centro",
			"room_type": "Entire home/apt",
			"latitude": 40.4168,
			"longitude": -3.7038,
			"accommodates": 4,
			"bedrooms": 2,
			"beds": 2,
			"bathrooms": 1.0
		}`
		req, _ := http.NewRequest("POST", "/api/v1/predict", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})
}

func TestOpportunitiesEndpoint(t *testing.T) {
	type opportunitiesResponse struct {
		Count         int                  `json:"count"`
		Opportunities []domain.Opportunity `json:"opportunities"`
	}

	t.Run("returns positive residuals sorted by margin", func(t *testing.T) {
		router := setupTestRouter(t, 100)

		req, _ := http.NewRequest("GET", "/api/v1/opportunities", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var response opportunitiesResponse
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		// Listing 3 is overpriced, only 1 and 2 qualify
		if response.Count != 2 {
			t.Fatalf("count = %d, want 2", response.Count)
		}
		if response.Opportunities[0].Residual != 85 || response.Opportunities[1].Residual != 40 {
			t.Errorf("residuals = [%v, %v], want [85, 40]",
				response.Opportunities[0].Residual, response.Opportunities[1].Residual)
		}
		if len(response.Opportunities[0].Geohash) != 6 {
			t.Errorf("geohash = %q, want 6 characters", response.Opportunities[0].Geohash)
		}
	})

	t.Run("applies limit and min_residual", func(t *testing.T) {
		router := setupTestRouter(t, 100)

		req, _ := http.NewRequest("GET", "/api/v1/opportunities?limit=5&min_residual=50", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response opportunitiesResponse
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Count != 1 {
			t.Errorf("count = %d, want 1 above a 50 euro margin", response.Count)
		}
	})

	t.Run("rejects a malformed limit", func(t *testing.T) {
		router := setupTestRouter(t, 100)

		req, _ := http.NewRequest("GET", "/api/v1/opportunities?limit=many", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("returns 503 when the dataset is missing", func(t *testing.T) {
		router := setupDegradedRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/opportunities", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})
}

func TestDistrictsEndpoint(t *testing.T) {
	router := setupTestRouter(t, 100)

	req, _ := http.NewRequest("GET", "/api/v1/districts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var response struct {
		Districts []string            `json:"districts"`
		Geography map[string][]string `json:"geography"`
		RoomTypes []string            `json:"room_types"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response.Districts) != 20 {
		t.Errorf("districts = %d, want 20", len(response.Districts))
	}
	if len(response.RoomTypes) != 4 {
		t.Errorf("room_types = %d, want 4", len(response.RoomTypes))
	}
	if len(response.Geography["Centro"]) == 0 {
		t.Error("geography is missing Centro neighbourhoods")
	}
}

func TestBoundariesEndpoint(t *testing.T) {
	t.Run("serves the raw GeoJSON", func(t *testing.T) {
		router := setupTestRouter(t, 100)

		req, _ := http.NewRequest("GET", "/api/v1/neighbourhoods/boundaries", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/geo+json" {
			t.Errorf("Content-Type = %s, want application/geo+json", ct)
		}

		var fc map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
			t.Fatalf("Failed to unmarshal GeoJSON: %v", err)
		}
		if fc["type"] != "FeatureCollection" {
			t.Errorf("type = %v, want FeatureCollection", fc["type"])
		}
	})

	t.Run("returns 503 when boundaries failed to load", func(t *testing.T) {
		router := setupDegradedRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/neighbourhoods/boundaries", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})
}

func TestCORSHeaders(t *testing.T) {
	t.Run("allows a configured origin", func(t *testing.T) {
		router := setupTestRouter(t, 100)

		req, _ := http.NewRequest("OPTIONS", "/api/v1/predict", nil)
		req.Header.Set("Origin", "http://localhost:8501")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNoContent)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8501" {
			t.Errorf("Access-Control-Allow-Origin = %s, want http://localhost:8501", got)
		}
	})

	t.Run("ignores an unknown origin", func(t *testing.T) {
		router := setupTestRouter(t, 100)

		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("Access-Control-Allow-Origin set for an unknown origin")
		}
	})
}
