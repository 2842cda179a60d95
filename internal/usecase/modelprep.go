package usecase

import (
	"math"
	"sort"
	"time"

	"github.com/madridpricer/backend/internal/domain"
	"github.com/madridpricer/backend/internal/infrastructure/dataset"
)

const dateLayout = "2006-01-02"

// dateColumns are replaced by days_since_<col> features.
var dateColumns = []string{"host_since", "first_review", "last_review"}

// highCardinalityColumns only served exploratory analysis.
var highCardinalityColumns = []string{"property_type", "neighbourhood_cleansed"}

// oneHotColumns get reference-category (drop-first) dummy encoding.
var oneHotColumns = []string{"neighbourhood_group_cleansed", "room_type"}

// responseTimeOrdinal is the fixed ordinal encoding of host_response_time.
// Unmapped or missing values encode as 0, same as the Unknown category.
var responseTimeOrdinal = map[string]float64{
	"Unknown":            0,
	"a few days or more": 1,
	"within a day":       2,
	"within a few hours": 3,
	"within an hour":     4,
}

// PrepareForModeling turns a cleaned listings frame into the model-ready
// feature table, in place. The reference time anchors the days_since date
// features; passing the original run timestamp reproduces a historical
// feature table exactly.
func PrepareForModeling(f *dataset.Frame, reference time.Time) {
	if f.Has("listing_url") {
		f.SetIndex("listing_url")
	}

	for _, col := range dateColumns {
		encodeDaysSince(f, col, reference)
	}

	f.Drop(highCardinalityColumns...)
	encodeResponseTime(f)

	for _, col := range oneHotColumns {
		oneHotEncode(f, col)
	}

	addPOIDistances(f)
	addRatioFeatures(f)
}

// encodeDaysSince replaces a date column with whole days elapsed up to the
// reference time. Unparseable or missing cells get the -1 sentinel.
func encodeDaysSince(f *dataset.Frame, col string, reference time.Time) {
	if !f.Has(col) {
		return
	}
	out := make([]float64, f.NumRows())
	if vals, ok := f.Strings(col); ok {
		for i, s := range vals {
			t, err := time.Parse(dateLayout, s)
			if err != nil {
				out[i] = domain.MissingSentinel
				continue
			}
			out[i] = math.Floor(reference.Sub(t).Hours() / 24)
		}
	} else {
		// Sentinel-filled column already numeric; days cannot be recovered
		for i := range out {
			out[i] = domain.MissingSentinel
		}
	}
	f.SetFloats("days_since_"+col, out)
	f.Drop(col)
}

func encodeResponseTime(f *dataset.Frame) {
	vals, ok := f.Strings("host_response_time")
	if !ok {
		return
	}
	out := make([]float64, len(vals))
	for i, s := range vals {
		out[i] = responseTimeOrdinal[s]
	}
	f.SetFloats("host_response_time", out)
}

// oneHotEncode replaces a categorical column with 0/1 indicator columns, one
// per category in sorted order with the first dropped as the reference.
func oneHotEncode(f *dataset.Frame, col string) {
	vals, ok := f.Strings(col)
	if !ok {
		return
	}
	seen := make(map[string]bool)
	for _, s := range vals {
		seen[s] = true
	}
	categories := make([]string, 0, len(seen))
	for s := range seen {
		categories = append(categories, s)
	}
	sort.Strings(categories)
	if len(categories) > 0 {
		categories = categories[1:] // reference category
	}
	for _, cat := range categories {
		out := make([]float64, len(vals))
		for i, s := range vals {
			if s == cat {
				out[i] = 1
			}
		}
		f.SetFloats(col+"_"+cat, out)
	}
	f.Drop(col)
}

// addPOIDistances adds the four landmark distances beyond Sol.
func addPOIDistances(f *dataset.Frame) {
	lats, okLat := f.Floats("latitude")
	lons, okLon := f.Floats("longitude")
	if !okLat || !okLon {
		return
	}
	for _, poi := range ExtraPOIs {
		f.SetFloats(poi.DistanceColumn(), DistanceToKm(lats, lons, poi))
	}
}

// addRatioFeatures derives the capacity ratios and the 30-day occupancy
// rate. Zero divisors are substituted with 1.
func addRatioFeatures(f *dataset.Frame) {
	bathrooms, okBath := f.Floats("bathrooms")
	accommodates, okAcc := f.Floats("accommodates")
	beds, okBeds := f.Floats("beds")

	if okBath && okAcc {
		out := make([]float64, len(bathrooms))
		for i := range out {
			out[i] = bathrooms[i] / nonZero(accommodates[i])
		}
		f.SetFloats("bathrooms_per_person", out)
	}
	if okAcc && okBeds {
		out := make([]float64, len(accommodates))
		for i := range out {
			out[i] = accommodates[i] / nonZero(beds[i])
		}
		f.SetFloats("accommodates_per_bed", out)
	}
	if avail, ok := f.Floats("availability_30"); ok {
		out := make([]float64, len(avail))
		for i := range out {
			out[i] = (30 - avail[i]) / 30
		}
		f.SetFloats("occupancy_rate_30d", out)
	}
}

// nonZero guards ratio denominators against division by zero.
func nonZero(v float64) float64 {
	if v > 0 {
		return v
	}
	return 1
}
