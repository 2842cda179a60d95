package domain

import "fmt"

// MissingSentinel marks a missing value in review and host-rate features.
// The trained model saw -1 wherever history was absent, for ratio-scale
// review scores and count-like fields alike. It must stay -1 end to end;
// porting it to NaN or 0 would move these rows out of distribution.
const MissingSentinel = -1.0

// ColumnSchema is the ordered list of feature names the trained model was
// fit on. Order is load-bearing: the model consumes positional vectors.
type ColumnSchema []string

// Index returns a name -> position lookup for the schema.
func (s ColumnSchema) Index() map[string]int {
	idx := make(map[string]int, len(s))
	for i, name := range s {
		idx[name] = i
	}
	return idx
}

// Has reports whether the schema contains the named column.
func (s ColumnSchema) Has(name string) bool {
	for _, c := range s {
		if c == name {
			return true
		}
	}
	return false
}

// FeatureRow is one model input keyed by feature name. Rows start zero-filled
// over the full schema so shape stays correct regardless of schema evolution.
type FeatureRow map[string]float64

// NewFeatureRow returns a row with every schema column present and zero.
func NewFeatureRow(schema ColumnSchema) FeatureRow {
	row := make(FeatureRow, len(schema))
	for _, name := range schema {
		row[name] = 0
	}
	return row
}

// Vector flattens the row into schema order. Every schema column must be
// present; a short row means translation drifted from the loaded schema.
func (r FeatureRow) Vector(schema ColumnSchema) ([]float64, error) {
	vec := make([]float64, len(schema))
	for i, name := range schema {
		v, ok := r[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchemaMismatch, name)
		}
		vec[i] = v
	}
	return vec, nil
}
