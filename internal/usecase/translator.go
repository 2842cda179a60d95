package usecase

import (
	"fmt"
	"strings"

	"github.com/madridpricer/backend/internal/domain"
)

// Idealized-host defaults injected for fields the query does not collect.
// They describe a responsive, verified host with moderate availability and
// one year of tenure, keeping synthetic rows inside the training
// distribution.
var idealizedHostDefaults = map[string]float64{
	"host_has_profile_pic":   1,
	"host_identity_verified": 1,
	"instant_bookable":       1,
	"has_availability":       1,
	"host_response_time":     4, // ordinal for "within an hour"
	"host_response_rate":     100,
	"host_acceptance_rate":   100,
	"availability_30":        15,
	"availability_60":        30,
	"availability_90":        45,
	"availability_365":       180,
	"days_since_host_since":  365,
}

// Plausible review history for an active host; the query only collects the
// overall rating and review count, not the sub-scores or recency.
var activeReviewDefaults = map[string]float64{
	"reviews_per_month":           1.5,
	"days_since_first_review":     180,
	"days_since_last_review":      15,
	"review_scores_accuracy":      4.8,
	"review_scores_cleanliness":   4.8,
	"review_scores_checkin":       4.9,
	"review_scores_communication": 4.9,
	"review_scores_location":      4.8,
	"review_scores_value":         4.7,
}

// reviewSentinelColumns all take the -1 sentinel for a zero-review query so
// the model sees the same "no history" pattern it was trained on.
var reviewSentinelColumns = []string{
	"reviews_per_month",
	"days_since_first_review",
	"days_since_last_review",
	"review_scores_rating",
	"review_scores_accuracy",
	"review_scores_cleanliness",
	"review_scores_checkin",
	"review_scores_communication",
	"review_scores_location",
	"review_scores_value",
}

// directColumns are copied straight from the query.
var directColumns = []string{
	"latitude", "longitude", "accommodates", "bedrooms", "beds", "bathrooms",
	"has_ac", "has_pool", "has_elevator", "has_parking", "host_is_superhost",
}

// derivedColumns are computed by the translator itself.
var derivedColumns = []string{
	"has_reviews", "number_of_reviews",
	"accommodates_per_bed", "bathrooms_per_person", "occupancy_rate_30d",
	"distance_to_sol_km", "distance_to_bernabeu_km", "distance_to_metropolitano_km",
	"distance_to_atocha_km", "distance_to_aeropuerto_km",
}

// Translator builds one model-ready feature row from a partial property
// query, reproducing the training-time schema without access to real host
// or review history.
type Translator struct {
	schema domain.ColumnSchema
}

// NewTranslator validates at construction that every non-indicator column
// the translator sets exists in the loaded schema, so schema drift surfaces
// at startup instead of as silently wrong predictions. One-hot indicator
// columns are exempt: the dropped reference category is expected to be
// absent.
func NewTranslator(schema domain.ColumnSchema) (*Translator, error) {
	idx := schema.Index()
	var missing []string
	check := func(name string) {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	for _, name := range directColumns {
		check(name)
	}
	for _, name := range derivedColumns {
		check(name)
	}
	for name := range idealizedHostDefaults {
		check(name)
	}
	for _, name := range reviewSentinelColumns {
		check(name)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: schema lacks translator columns: %s",
			domain.ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return &Translator{schema: schema}, nil
}

// Transform builds the full feature row for one query. The returned row has
// exactly the schema's columns; Vector flattens it into model order.
func (t *Translator) Transform(q *domain.PropertyQuery) domain.FeatureRow {
	row := domain.NewFeatureRow(t.schema)

	row["latitude"] = q.Latitude
	row["longitude"] = q.Longitude
	row["accommodates"] = float64(q.Accommodates)
	row["bedrooms"] = float64(q.Bedrooms)
	row["beds"] = float64(q.Beds)
	row["bathrooms"] = q.Bathrooms
	row["has_ac"] = float64(q.HasAC)
	row["has_pool"] = float64(q.HasPool)
	row["has_elevator"] = float64(q.HasElevator)
	row["has_parking"] = float64(q.HasParking)
	row["host_is_superhost"] = float64(q.HostIsSuperhost)

	for name, v := range idealizedHostDefaults {
		row[name] = v
	}

	if q.NumberOfReviews == 0 {
		row["has_reviews"] = 0
		row["number_of_reviews"] = 0
		for _, name := range reviewSentinelColumns {
			row[name] = domain.MissingSentinel
		}
	} else {
		row["has_reviews"] = 1
		row["number_of_reviews"] = float64(q.NumberOfReviews)
		row["review_scores_rating"] = q.Rating()
		for name, v := range activeReviewDefaults {
			row[name] = v
		}
	}

	row[PuertaDelSol.DistanceColumn()] = HaversineKm(q.Latitude, q.Longitude, PuertaDelSol.Lat, PuertaDelSol.Lon)
	for _, poi := range ExtraPOIs {
		row[poi.DistanceColumn()] = HaversineKm(q.Latitude, q.Longitude, poi.Lat, poi.Lon)
	}

	row["accommodates_per_bed"] = float64(q.Accommodates) / nonZero(float64(q.Beds))
	row["bathrooms_per_person"] = q.Bathrooms / nonZero(float64(q.Accommodates))
	row["occupancy_rate_30d"] = (30 - row["availability_30"]) / 30

	// Indicator columns: the chosen category may be the dropped reference
	// category, in which case no column exists and all indicators stay 0.
	if col := "neighbourhood_group_cleansed_" + q.Neighbourhood; t.schema.Has(col) {
		row[col] = 1
	}
	if col := "room_type_" + q.RoomType; t.schema.Has(col) {
		row[col] = 1
	}

	return row
}

// Vector returns the row flattened into exact schema order.
func (t *Translator) Vector(row domain.FeatureRow) ([]float64, error) {
	return row.Vector(t.schema)
}
