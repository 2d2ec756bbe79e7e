package modeler

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/gnames/spidermap/internal/ent/agg"
	"github.com/gnames/spidermap/internal/ent/forest"
	"github.com/gnames/spidermap/internal/ent/prep"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrImportanceLength is returned when the number of feature names does
	// not match the number of importances.
	ErrImportanceLength = errors.New(
		"number of feature names does not match the number of importances",
	)

	// ErrEmptySplit is returned when train or test part has no rows.
	ErrEmptySplit = errors.New("train or test split is empty")
)

// Config holds settings of the model.
type Config struct {
	TestSize float64
	Seed     uint64
	Trees    int
	JobsNum  int
}

// Importance is the share of impurity decrease of a feature.
type Importance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Result is the outcome of one model fit.
type Result struct {
	Name        string       `json:"name"`
	Features    []string     `json:"features"`
	TrainRows   int          `json:"trainRows"`
	TestRows    int          `json:"testRows"`
	MSE         float64      `json:"mse"`
	R2          float64      `json:"r2"`
	Importances []Importance `json:"importances"`
}

// Report contains results of the full and the ablation model.
type Report struct {
	Rows        int      `json:"rows"`
	Species     int      `json:"species"`
	Unconverted int      `json:"unconverted"`
	Results     []Result `json:"results"`
}

// Run encodes presence, groups occurrences and fits the model with all
// features and without location features.
func Run(ctx context.Context, recs []agg.Record, cfg Config) (Report, error) {
	var res Report
	recs, res.Unconverted = EncodePresence(recs)
	if res.Unconverted > 0 {
		slog.Warn("Occurrence values other than PRESENT are not counted",
			"rows", humanize.Comma(int64(res.Unconverted)))
	}

	t := NewTable(recs)
	res.Rows = t.Len()
	res.Species = len(t.Species.Classes())
	slog.Info("Grouped occurrences",
		"rows", humanize.Comma(int64(res.Rows)), "species", res.Species)

	full, err := Fit(ctx, t, "all features", nil, cfg)
	if err != nil {
		return res, err
	}
	ablation, err := Fit(ctx, t, "without location", LocationFeatures, cfg)
	if err != nil {
		return res, err
	}
	res.Results = []Result{full, ablation}
	return res, nil
}

// Fit splits the table, standardizes numeric features, one-hot encodes
// categorical ones and fits a random forest. Features in drop are not used.
func Fit(
	ctx context.Context,
	t *Table,
	name string,
	drop []string,
	cfg Config,
) (Result, error) {
	res := Result{Name: name}
	numNames := without(NumericFeatures, drop)
	catNames := without(CategoricalFeatures, drop)

	train, test := prep.TrainTestSplit(t.Len(), cfg.TestSize, cfg.Seed)
	if len(train) == 0 || len(test) == 0 {
		return res, fmt.Errorf("%d train, %d test rows: %w",
			len(train), len(test), ErrEmptySplit)
	}
	res.TrainRows, res.TestRows = len(train), len(test)

	numTrain := numericCols(t, numNames, train)
	catTrain := categoricalCols(t, catNames, train)
	scaler := prep.FitScaler(numTrain)
	oneHot := prep.FitOneHot(catNames, catTrain)

	xTrain := design(scaler, oneHot, numTrain, catTrain, len(train))
	xTest := design(
		scaler, oneHot,
		numericCols(t, numNames, test),
		categoricalCols(t, catNames, test),
		len(test),
	)
	yTrain, yTest := pick(t.Target, train), pick(t.Target, test)

	rf, err := forest.Fit(ctx, xTrain, yTrain, forest.Config{
		Trees:           cfg.Trees,
		Seed:            cfg.Seed,
		MinSamplesSplit: 2,
		JobsNum:         cfg.JobsNum,
	})
	if err != nil {
		return res, fmt.Errorf("cannot fit random forest: %w", err)
	}

	pred := rf.Predict(xTest)
	res.MSE = MSE(yTest, pred)
	res.R2 = R2(yTest, pred)

	res.Features = append(slices.Clone(numNames), oneHot.FeatureNames()...)
	res.Importances, err = Importances(res.Features, rf.Importances())
	if err != nil {
		return res, err
	}
	slog.Info("Fitted model", "model", name, "mse", res.MSE, "r2", res.R2)
	return res, nil
}

// Importances pairs feature names with importances and sorts them in
// descending order.
func Importances(names []string, values []float64) ([]Importance, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("%d names, %d importances: %w",
			len(names), len(values), ErrImportanceLength)
	}
	res := make([]Importance, len(names))
	for i := range names {
		res[i] = Importance{Feature: names[i], Importance: values[i]}
	}
	slices.SortStableFunc(res, func(a, b Importance) int {
		return cmp.Compare(b.Importance, a.Importance)
	})
	return res, nil
}

// MSE is the mean squared error.
func MSE(y, pred []float64) float64 {
	if len(y) == 0 {
		return math.NaN()
	}
	d := floats.Distance(y, pred, 2)
	return d * d / float64(len(y))
}

// R2 is the coefficient of determination. For constant targets it is 1 for
// perfect predictions and 0 otherwise.
func R2(y, pred []float64) float64 {
	if len(y) == 0 {
		return math.NaN()
	}
	if stat.Variance(y, nil) == 0 || len(y) == 1 {
		if floats.Equal(y, pred) {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(pred, y, nil)
}

func without(names, drop []string) []string {
	res := make([]string, 0, len(names))
	for _, v := range names {
		if !slices.Contains(drop, v) {
			res = append(res, v)
		}
	}
	return res
}

func pick[T any](col []T, idx []int) []T {
	res := make([]T, len(idx))
	for i, v := range idx {
		res[i] = col[v]
	}
	return res
}

func numericCols(t *Table, names []string, idx []int) [][]float64 {
	res := make([][]float64, len(names))
	for j, v := range names {
		res[j] = pick(t.Numeric[v], idx)
	}
	return res
}

func categoricalCols(t *Table, names []string, idx []int) [][]string {
	res := make([][]string, len(names))
	for j, v := range names {
		res[j] = pick(t.Categorical[v], idx)
	}
	return res
}

// design builds rows of scaled numeric features followed by indicators.
func design(
	s *prep.Scaler,
	o *prep.OneHot,
	num [][]float64,
	cat [][]string,
	n int,
) [][]float64 {
	nNum := len(num)
	res := make([][]float64, n)
	for i := range n {
		row := make([]float64, nNum+o.Width())
		s.Transform(num, i, row[:nNum])
		o.Transform(cat, i, row[nNum:])
		res[i] = row
	}
	return res
}
