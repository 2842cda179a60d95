package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/madridpricer/backend/internal/domain"
	"github.com/madridpricer/backend/internal/infrastructure/dataset"
)

// Package-level compiled regex patterns for performance
var (
	currencySymbolRegex = regexp.MustCompile(`[\$,]`)
	firstDecimalRegex   = regexp.MustCompile(`(\d+\.?\d*)`)

	// Amenity flag patterns matched against the lower-cased free text
	acPattern       = regexp.MustCompile(`air conditioning|ac`)
	poolPattern     = regexp.MustCompile(`pool`)
	elevatorPattern = regexp.MustCompile(`elevator`)
	parkingPattern  = regexp.MustCompile(`parking|garage`)
)

// noiseColumns are identifiers, URLs, free text, scrape metadata and
// min/max-nights variants already summarized elsewhere, plus the empty
// legacy bathrooms column. Dropped before any other cleaning step.
var noiseColumns = []string{
	"id", "scrape_id", "last_scraped", "source", "name",
	"description", "neighborhood_overview", "picture_url", "host_id",
	"host_url", "host_name", "host_location", "host_about", "host_listings_count",
	"host_thumbnail_url", "host_picture_url", "host_neighbourhood",
	"host_verifications", "neighbourhood", "calendar_updated",
	"calendar_last_scraped", "license", "host_total_listings_count",
	"minimum_minimum_nights", "maximum_minimum_nights",
	"minimum_maximum_nights", "maximum_maximum_nights",
	"minimum_nights_avg_ntm", "maximum_nights_avg_ntm",
	"availability_eoy", "estimated_occupancy_l365d", "estimated_revenue_l365d",
	"bathrooms",
}

// reviewColumns all share the -1 missing sentinel.
var reviewColumns = []string{
	"review_scores_rating", "review_scores_accuracy", "review_scores_cleanliness",
	"review_scores_checkin", "review_scores_communication",
	"review_scores_location", "review_scores_value", "first_review",
	"last_review", "reviews_per_month",
}

// booleanColumns are t/f coded in the source data.
var booleanColumns = []string{
	"host_is_superhost", "host_has_profile_pic",
	"host_identity_verified", "has_availability", "instant_bookable",
}

// hostRateColumns carry percent strings in the source data.
var hostRateColumns = []string{"host_response_rate", "host_acceptance_rate"}

// ghostHostColumns identify an unusable host record when any is missing.
var ghostHostColumns = []string{"host_since", "host_has_profile_pic", "host_identity_verified"}

// fillDefaults is the declarative default-on-missing policy applied in one
// pass: review history gets the -1 sentinel, response time a literal
// category, and two of the boolean columns an explicit false. Doubles as
// the documentation of the imputation policy.
var fillDefaults = []struct {
	col string
	def string
}{
	{"review_scores_rating", "-1"},
	{"review_scores_accuracy", "-1"},
	{"review_scores_cleanliness", "-1"},
	{"review_scores_checkin", "-1"},
	{"review_scores_communication", "-1"},
	{"review_scores_location", "-1"},
	{"review_scores_value", "-1"},
	{"first_review", "-1"},
	{"last_review", "-1"},
	{"reviews_per_month", "-1"},
	{"host_response_time", "Unknown"},
	{"host_is_superhost", "f"},
	{"has_availability", "f"},
}

// CleanListings executes the business rules for cleaning and missing-value
// imputation on a raw listings frame, in place. Every step is guarded by
// column-presence checks so partial schemas degrade gracefully.
func CleanListings(f *dataset.Frame) {
	f.Drop(noiseColumns...)

	cleanPrice(f)

	// has_reviews must be derived before the sentinel fill erases the
	// distinction between "no history" and a recorded value
	deriveHasReviews(f)
	applyFillDefaults(f)

	cleanHostRates(f)
	dropGhostHosts(f)
	mapBooleans(f)
	extractBathrooms(f)
	groupedImputation(f)
	amenityFlags(f)
	addSolDistance(f)
}

// cleanPrice strips currency formatting from the supervised target and drops
// rows where it is missing; price cannot be imputed.
func cleanPrice(f *dataset.Frame) {
	if !f.Has("price") {
		return
	}
	if vals, ok := f.Strings("price"); ok {
		cleaned := make([]string, len(vals))
		for i, s := range vals {
			cleaned[i] = currencySymbolRegex.ReplaceAllString(s, "")
		}
		f.SetStrings("price", cleaned)
		f.ToFloat("price")
	}
	prices, _ := f.Floats("price")
	keep := make([]bool, len(prices))
	for i, v := range prices {
		keep[i] = !math.IsNaN(v)
	}
	f.Filter(keep)
}

func deriveHasReviews(f *dataset.Frame) {
	if !f.Has("reviews_per_month") {
		return
	}
	flags := make([]float64, f.NumRows())
	if vals, ok := f.Floats("reviews_per_month"); ok {
		for i, v := range vals {
			if !math.IsNaN(v) {
				flags[i] = 1
			}
		}
	} else if vals, ok := f.Strings("reviews_per_month"); ok {
		for i, s := range vals {
			if s != "" {
				flags[i] = 1
			}
		}
	}
	f.SetFloats("has_reviews", flags)
}

// applyFillDefaults runs the declarative fill table. Numeric columns take
// the parsed default, string columns the literal.
func applyFillDefaults(f *dataset.Frame) {
	for _, rule := range fillDefaults {
		if !f.Has(rule.col) {
			continue
		}
		if vals, ok := f.Floats(rule.col); ok {
			for i, v := range vals {
				if math.IsNaN(v) {
					vals[i] = domain.MissingSentinel
				}
			}
			continue
		}
		vals, _ := f.Strings(rule.col)
		for i, s := range vals {
			if s == "" {
				vals[i] = rule.def
			}
		}
	}
}

// cleanHostRates strips the percent sign, coerces to numeric and fills
// missing or unparseable cells with the -1 sentinel.
func cleanHostRates(f *dataset.Frame) {
	for _, col := range hostRateColumns {
		if !f.Has(col) {
			continue
		}
		if vals, ok := f.Strings(col); ok {
			stripped := make([]string, len(vals))
			for i, s := range vals {
				if len(s) > 0 && s[len(s)-1] == '%' {
					s = s[:len(s)-1]
				}
				stripped[i] = s
			}
			f.SetStrings(col, stripped)
			f.ToFloat(col)
		}
		vals, _ := f.Floats(col)
		for i, v := range vals {
			if math.IsNaN(v) {
				vals[i] = domain.MissingSentinel
			}
		}
	}
}

// dropGhostHosts removes rows missing core host identity fields.
func dropGhostHosts(f *dataset.Frame) {
	keep := make([]bool, f.NumRows())
	for i := range keep {
		keep[i] = true
	}
	any := false
	for _, col := range ghostHostColumns {
		if !f.Has(col) {
			continue
		}
		any = true
		if vals, ok := f.Strings(col); ok {
			for i, s := range vals {
				if s == "" {
					keep[i] = false
				}
			}
		} else if vals, ok := f.Floats(col); ok {
			for i, v := range vals {
				if math.IsNaN(v) {
					keep[i] = false
				}
			}
		}
	}
	if any {
		f.Filter(keep)
	}
}

// mapBooleans converts the t/f coded columns to 1/0 floats. Values outside
// the known codings become NaN, matching the source pipeline.
func mapBooleans(f *dataset.Frame) {
	for _, col := range booleanColumns {
		vals, ok := f.Strings(col)
		if !ok {
			continue
		}
		out := make([]float64, len(vals))
		for i, s := range vals {
			switch s {
			case "t", "True", "true":
				out[i] = 1
			case "f", "False", "false":
				out[i] = 0
			default:
				out[i] = math.NaN()
			}
		}
		f.SetFloats(col, out)
	}
}

// extractBathrooms parses the first decimal number out of the free-text
// bathrooms_text field and drops the text column.
func extractBathrooms(f *dataset.Frame) {
	vals, ok := f.Strings("bathrooms_text")
	if !ok {
		return
	}
	out := make([]float64, len(vals))
	for i, s := range vals {
		m := firstDecimalRegex.FindString(s)
		if m == "" {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	f.SetFloats("bathrooms", out)
	f.Drop("bathrooms_text")
}

// groupedImputation fills bedrooms/bathrooms/beds from the median of rows
// sharing the same accommodates value, then the global median for any group
// that was entirely null. Order matters: group pass first, global second.
func groupedImputation(f *dataset.Frame) {
	keys, ok := f.Floats("accommodates")
	if !ok {
		return
	}
	for _, col := range []string{"bedrooms", "bathrooms", "beds"} {
		vals, ok := f.Floats(col)
		if !ok {
			continue
		}
		medians := dataset.GroupedMedians(keys, vals)
		for i, v := range vals {
			if math.IsNaN(v) {
				if m, ok := medians[keys[i]]; ok && !math.IsNaN(m) {
					vals[i] = m
				}
			}
		}
		global := dataset.Median(vals)
		for i, v := range vals {
			if math.IsNaN(v) {
				vals[i] = global
			}
		}
	}
}

// amenityFlags derives the premium-feature indicators from the free-text
// amenities field and drops the raw text.
func amenityFlags(f *dataset.Frame) {
	vals, ok := f.Strings("amenities")
	if !ok {
		return
	}
	flags := []struct {
		col     string
		pattern *regexp.Regexp
	}{
		{"has_ac", acPattern},
		{"has_pool", poolPattern},
		{"has_elevator", elevatorPattern},
		{"has_parking", parkingPattern},
	}
	lowered := make([]string, len(vals))
	for i, s := range vals {
		lowered[i] = strings.ToLower(s)
	}
	for _, flag := range flags {
		out := make([]float64, len(lowered))
		for i, s := range lowered {
			if flag.pattern.MatchString(s) {
				out[i] = 1
			}
		}
		f.SetFloats(flag.col, out)
	}
	f.Drop("amenities")
}

// addSolDistance adds the distance to Puerta del Sol for every listing.
func addSolDistance(f *dataset.Frame) {
	lats, okLat := f.Floats("latitude")
	lons, okLon := f.Floats("longitude")
	if !okLat || !okLon {
		return
	}
	f.SetFloats(PuertaDelSol.DistanceColumn(), DistanceToKm(lats, lons, PuertaDelSol))
}
