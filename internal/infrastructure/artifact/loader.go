package artifact

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/madridpricer/backend/internal/domain"
)

// modelSpec is the on-disk JSON form of a model artifact. The kind field
// selects which of the remaining fields apply; stacking specs nest base and
// meta specs recursively.
type modelSpec struct {
	Kind         string      `json:"kind"`
	Intercept    float64     `json:"intercept"`
	Coefficients []float64   `json:"coefficients"`
	BaseScore    float64     `json:"base_score"`
	LearningRate float64     `json:"learning_rate"`
	Trees        []treeSpec  `json:"trees"`
	Base         []modelSpec `json:"base"`
	Meta         *modelSpec  `json:"meta"`
}

type treeSpec struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

// LoadModel reads and builds the trained regression artifact. The returned
// predictor is read-only and safe for concurrent use.
func LoadModel(path string) (domain.Predictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArtifactCorrupt, err)
	}
	var spec modelSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrArtifactCorrupt, path, err)
	}
	model, err := buildModel(&spec)
	if err != nil {
		return nil, err
	}
	log.Printf("[ARTIFACT] Loaded %s model from %s", spec.Kind, path)
	return model, nil
}

// LoadColumns reads the ordered feature-name list the model was fit on.
func LoadColumns(path string) (domain.ColumnSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrArtifactCorrupt, err)
	}
	var columns domain.ColumnSchema
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrArtifactCorrupt, path, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s holds no columns", domain.ErrArtifactCorrupt, path)
	}
	log.Printf("[ARTIFACT] Loaded %d model columns from %s", len(columns), path)
	return columns, nil
}

func buildModel(spec *modelSpec) (domain.Predictor, error) {
	switch spec.Kind {
	case "linear":
		if len(spec.Coefficients) == 0 {
			return nil, fmt.Errorf("%w: linear model has no coefficients", domain.ErrArtifactCorrupt)
		}
		return &LinearModel{Intercept: spec.Intercept, Coefficients: spec.Coefficients}, nil

	case "tree_ensemble":
		if len(spec.Trees) == 0 {
			return nil, fmt.Errorf("%w: tree ensemble has no trees", domain.ErrArtifactCorrupt)
		}
		lr := spec.LearningRate
		if lr == 0 {
			lr = 1
		}
		ensemble := &TreeEnsemble{LearningRate: lr, BaseScore: spec.BaseScore}
		for i, ts := range spec.Trees {
			t, err := buildTree(&ts)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
			ensemble.Trees = append(ensemble.Trees, *t)
		}
		return ensemble, nil

	case "stacking":
		if len(spec.Base) == 0 || spec.Meta == nil {
			return nil, fmt.Errorf("%w: stacking model needs base models and a meta learner", domain.ErrArtifactCorrupt)
		}
		stack := &StackingModel{}
		for i := range spec.Base {
			base, err := buildModel(&spec.Base[i])
			if err != nil {
				return nil, fmt.Errorf("base model %d: %w", i, err)
			}
			stack.Base = append(stack.Base, base)
		}
		meta, err := buildModel(spec.Meta)
		if err != nil {
			return nil, fmt.Errorf("meta learner: %w", err)
		}
		stack.Meta = meta
		return stack, nil

	default:
		return nil, fmt.Errorf("%w: unknown model kind %q", domain.ErrArtifactCorrupt, spec.Kind)
	}
}

func buildTree(ts *treeSpec) (*tree, error) {
	n := len(ts.Feature)
	if n == 0 || len(ts.Threshold) != n || len(ts.Left) != n || len(ts.Right) != n || len(ts.Value) != n {
		return nil, fmt.Errorf("%w: tree arrays have inconsistent lengths", domain.ErrArtifactCorrupt)
	}
	return &tree{
		feature:   ts.Feature,
		threshold: ts.Threshold,
		left:      ts.Left,
		right:     ts.Right,
		value:     ts.Value,
	}, nil
}
