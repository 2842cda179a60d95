// Package artifact loads the two serialized artifacts the serving process
// depends on: the trained regression model and the ordered column schema it
// was fit on. Both are exported as JSON by the training side and are
// immutable for the life of the process.
package artifact

import (
	"fmt"

	"github.com/madridpricer/backend/internal/domain"
)

// LinearModel is a fitted linear regression: intercept plus one coefficient
// per schema column.
type LinearModel struct {
	Intercept    float64
	Coefficients []float64
}

// Predict computes the dot product of the row and the coefficients.
func (m *LinearModel) Predict(row []float64) (float64, error) {
	if len(row) != len(m.Coefficients) {
		return 0, fmt.Errorf("%w: row has %d features, model expects %d",
			domain.ErrSchemaMismatch, len(row), len(m.Coefficients))
	}
	sum := m.Intercept
	for i, v := range row {
		sum += v * m.Coefficients[i]
	}
	return sum, nil
}

// tree is one regression tree in flattened-array form. Leaves have
// feature -1 and their prediction in value.
type tree struct {
	feature   []int
	threshold []float64
	left      []int
	right     []int
	value     []float64
}

// evaluate walks the tree from the root for one feature row.
func (t *tree) evaluate(row []float64) (float64, error) {
	node := 0
	for steps := 0; steps <= len(t.feature); steps++ {
		if node < 0 || node >= len(t.feature) {
			return 0, fmt.Errorf("%w: tree node %d out of range", domain.ErrArtifactCorrupt, node)
		}
		fi := t.feature[node]
		if fi < 0 {
			return t.value[node], nil
		}
		if fi >= len(row) {
			return 0, fmt.Errorf("%w: tree references feature %d, row has %d",
				domain.ErrSchemaMismatch, fi, len(row))
		}
		if row[fi] <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return 0, fmt.Errorf("%w: tree walk did not terminate", domain.ErrArtifactCorrupt)
}

// TreeEnsemble is a boosted ensemble of regression trees.
type TreeEnsemble struct {
	Trees        []tree
	LearningRate float64
	BaseScore    float64
}

// Predict sums the scaled tree outputs over the base score.
func (m *TreeEnsemble) Predict(row []float64) (float64, error) {
	sum := m.BaseScore
	for i := range m.Trees {
		v, err := m.Trees[i].evaluate(row)
		if err != nil {
			return 0, err
		}
		sum += m.LearningRate * v
	}
	return sum, nil
}

// StackingModel feeds every base model's prediction into a meta learner,
// matching the stacking ensemble the pricing model was trained as.
type StackingModel struct {
	Base []domain.Predictor
	Meta domain.Predictor
}

// Predict runs the base models and combines their outputs with the meta
// learner.
func (m *StackingModel) Predict(row []float64) (float64, error) {
	metaRow := make([]float64, len(m.Base))
	for i, base := range m.Base {
		v, err := base.Predict(row)
		if err != nil {
			return 0, err
		}
		metaRow[i] = v
	}
	return m.Meta.Predict(metaRow)
}
