package domain

import "fmt"

// PropertyQuery is a user-entered property description at inference time.
// It is a strict subset of what a cleaned listing record contains; everything
// else is backfilled by the translator with fixed "typical host" defaults.
type PropertyQuery struct {
	Neighbourhood string  `json:"neighbourhood" binding:"required"`
	RoomType      string  `json:"room_type" binding:"required"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`

	Accommodates int     `json:"accommodates" binding:"required,gt=0"`
	Bedrooms     int     `json:"bedrooms" binding:"gte=0"`
	Beds         int     `json:"beds" binding:"required,gt=0"`
	Bathrooms    float64 `json:"bathrooms" binding:"gte=0"`

	HasAC       int `json:"has_ac"`
	HasPool     int `json:"has_pool"`
	HasElevator int `json:"has_elevator"`
	HasParking  int `json:"has_parking"`

	HostIsSuperhost int `json:"host_is_superhost"`
	NumberOfReviews int `json:"number_of_reviews"`

	// ReviewScoresRating defaults to 4.70 when omitted. Only consulted when
	// NumberOfReviews is nonzero; zero-review queries get the -1 sentinel.
	ReviewScoresRating *float64 `json:"review_scores_rating"`
}

// DefaultReviewScoresRating is applied when the query omits a rating.
const DefaultReviewScoresRating = 4.70

// Rating returns the user-supplied review score or the documented default.
func (q *PropertyQuery) Rating() float64 {
	if q.ReviewScoresRating == nil {
		return DefaultReviewScoresRating
	}
	return *q.ReviewScoresRating
}

// Validate checks the closed category sets and coordinate ranges.
// Binding tags cover the numeric range checks.
func (q *PropertyQuery) Validate() error {
	if !ValidDistrict(q.Neighbourhood) {
		return fmt.Errorf("%w: unknown neighbourhood %q", ErrInvalidQuery, q.Neighbourhood)
	}
	if !ValidRoomType(q.RoomType) {
		return fmt.Errorf("%w: unknown room type %q", ErrInvalidQuery, q.RoomType)
	}
	if q.Latitude < -90 || q.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidQuery, q.Latitude)
	}
	if q.Longitude < -180 || q.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidQuery, q.Longitude)
	}
	if q.NumberOfReviews < 0 {
		return fmt.Errorf("%w: number_of_reviews must be >= 0", ErrInvalidQuery)
	}
	return nil
}

// PredictionResult is the response of a successful price prediction.
type PredictionResult struct {
	PredictedPriceEuros float64 `json:"predicted_price_euros"`
	Currency            string  `json:"currency"`
}

// BargainRecord is one row of the pre-scored bargain dataset.
type BargainRecord struct {
	ListingURL     string  `json:"listing_url"`
	Price          float64 `json:"price"`
	PredictedPrice float64 `json:"predicted_price"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// Opportunity is a bargain record whose model price exceeds the asking price.
type Opportunity struct {
	ListingURL     string  `json:"listing_url"`
	Price          float64 `json:"price"`
	PredictedPrice float64 `json:"predicted_price"`
	Residual       float64 `json:"residual"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Geohash        string  `json:"geohash"` // cell for map marker clustering
}
