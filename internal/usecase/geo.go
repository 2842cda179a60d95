package usecase

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Madrid points of interest used as locational proxy features. Distance to
// Sol is added during cleaning; the other four during modeling prep and in
// the inference translator.
var (
	PuertaDelSol  = POI{Name: "sol", Lat: 40.4168, Lon: -3.7038}
	Bernabeu      = POI{Name: "bernabeu", Lat: 40.4530, Lon: -3.6883}
	Metropolitano = POI{Name: "metropolitano", Lat: 40.4361, Lon: -3.5995}
	Atocha        = POI{Name: "atocha", Lat: 40.4065, Lon: -3.6908}
	Aeropuerto    = POI{Name: "aeropuerto", Lat: 40.4839, Lon: -3.5680}
)

// ExtraPOIs are the four landmarks beyond Sol; their distance columns are
// named distance_to_<name>_km.
var ExtraPOIs = []POI{Bernabeu, Metropolitano, Atocha, Aeropuerto}

// POI is a fixed Madrid landmark.
type POI struct {
	Name string
	Lat  float64
	Lon  float64
}

// DistanceColumn returns the feature column name for this landmark.
func (p POI) DistanceColumn() string {
	return "distance_to_" + p.Name + "_km"
}

// HaversineKm returns the great-circle distance in kilometers between two
// (latitude, longitude) pairs in degrees. NaN inputs propagate to NaN.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dlat := lat2Rad - lat1Rad
	dlon := lon2Rad - lon1Rad

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceToKm is the elementwise form applied over whole dataset columns.
// lats and lons must have equal length.
func DistanceToKm(lats, lons []float64, poi POI) []float64 {
	out := make([]float64, len(lats))
	for i := range lats {
		out[i] = HaversineKm(lats[i], lons[i], poi.Lat, poi.Lon)
	}
	return out
}
