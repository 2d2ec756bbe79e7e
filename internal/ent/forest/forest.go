package forest

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoData is returned when there are no rows to fit.
	ErrNoData = errors.New("no data to fit")

	// ErrShape is returned when rows and targets do not match.
	ErrShape = errors.New("rows and targets do not match")
)

// Config holds settings of a random forest.
type Config struct {
	// Trees is the number of trees.
	Trees int

	// Seed makes bootstrap samples reproducible.
	Seed uint64

	// MinSamplesSplit is the smallest number of rows in a node that can be
	// split.
	MinSamplesSplit int

	// MaxDepth limits the depth of trees, 0 means no limit.
	MaxDepth int

	// JobsNum is the number of trees fitted at the same time.
	JobsNum int
}

// Forest is a random forest regressor. Every tree is grown on a bootstrap
// sample and considers all features at every split.
type Forest struct {
	trees     []*Tree
	nFeatures int
}

// Fit grows a forest. Rows are samples, columns are features.
func Fit(
	ctx context.Context,
	x [][]float64,
	y []float64,
	cfg Config,
) (*Forest, error) {
	if len(x) == 0 {
		return nil, ErrNoData
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%d rows, %d targets: %w", len(x), len(y), ErrShape)
	}
	nFeatures := len(x[0])
	for i := range x {
		if len(x[i]) != nFeatures {
			return nil, fmt.Errorf("row %d has %d features, not %d: %w",
				i, len(x[i]), nFeatures, ErrShape)
		}
	}
	if cfg.Trees < 1 {
		cfg.Trees = 1
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	if cfg.JobsNum < 1 {
		cfg.JobsNum = 1
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	seeds := make([]uint64, cfg.Trees)
	for i := range seeds {
		seeds[i] = rng.Uint64()
	}

	res := Forest{
		trees:     make([]*Tree, cfg.Trees),
		nFeatures: nFeatures,
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.JobsNum)
	for i := range seeds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			samples := bootstrap(len(x), seeds[i])
			res.trees[i] = fitTree(x, y, samples, cfg.MinSamplesSplit, cfg.MaxDepth)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

// bootstrap draws n rows with replacement and returns every drawn row once
// with the number of draws as its weight.
func bootstrap(n int, seed uint64) []sample {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	counts := make([]float64, n)
	for range n {
		counts[rng.IntN(n)]++
	}
	res := make([]sample, 0, n)
	for i, v := range counts {
		if v > 0 {
			res = append(res, sample{idx: i, w: v})
		}
	}
	return res
}

// Predict returns the mean prediction of all trees for every row.
func (f *Forest) Predict(x [][]float64) []float64 {
	res := make([]float64, len(x))
	for i, row := range x {
		var sum float64
		for _, t := range f.trees {
			sum += t.Predict(row)
		}
		res[i] = sum / float64(len(f.trees))
	}
	return res
}

// Importances returns impurity-based feature importances. Importances of
// every tree are normalized, averaged over trees and normalized again.
func (f *Forest) Importances() []float64 {
	res := make([]float64, f.nFeatures)
	for _, t := range f.trees {
		for i, v := range t.importances {
			res[i] += v
		}
	}
	for i := range res {
		res[i] /= float64(len(f.trees))
	}
	normalize(res)
	return res
}
