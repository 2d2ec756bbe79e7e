package forest

import (
	"slices"
)

// featureThreshold is the smallest difference between feature values that
// can be split.
const featureThreshold = 1e-7

type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
	leaf      bool
}

// Tree is a regression tree that minimizes squared error.
type Tree struct {
	nodes       []node
	importances []float64
}

type sample struct {
	idx int
	w   float64
}

type builder struct {
	x        [][]float64
	y        []float64
	minSplit int
	maxDepth int
	tree     *Tree
	buf      []sample
}

// fitTree grows a tree on samples with weights. Weight is the number of
// times a row is drawn into the bootstrap sample.
func fitTree(
	x [][]float64,
	y []float64,
	samples []sample,
	minSplit, maxDepth int,
) *Tree {
	nFeatures := 0
	if len(x) > 0 {
		nFeatures = len(x[0])
	}
	b := builder{
		x:        x,
		y:        y,
		minSplit: minSplit,
		maxDepth: maxDepth,
		tree:     &Tree{importances: make([]float64, nFeatures)},
		buf:      make([]sample, len(samples)),
	}
	b.grow(samples, 0)
	normalize(b.tree.importances)
	return b.tree
}

type stats struct {
	w, sum, sq float64
}

func (s *stats) add(y, w float64) {
	s.w += w
	s.sum += w * y
	s.sq += w * y * y
}

func (s stats) mean() float64 {
	if s.w == 0 {
		return 0
	}
	return s.sum / s.w
}

// impurity is the weighted variance.
func (s stats) impurity() float64 {
	if s.w == 0 {
		return 0
	}
	m := s.sum / s.w
	res := s.sq/s.w - m*m
	if res < 0 {
		return 0
	}
	return res
}

type split struct {
	feature   int
	threshold float64
	pos       int
	proxy     float64
	left      stats
	right     stats
}

func (b *builder) grow(samples []sample, depth int) int {
	var st stats
	for _, s := range samples {
		st.add(b.y[s.idx], s.w)
	}
	id := len(b.tree.nodes)
	b.tree.nodes = append(b.tree.nodes, node{value: st.mean(), leaf: true})

	imp := st.impurity()
	if len(samples) < b.minSplit ||
		(b.maxDepth > 0 && depth >= b.maxDepth) ||
		imp <= featureThreshold*featureThreshold {
		return id
	}

	sp, ok := b.bestSplit(samples, st)
	if !ok {
		return id
	}

	// reorder samples by the chosen feature so both halves are contiguous
	f := sp.feature
	slices.SortStableFunc(samples, func(a, c sample) int {
		va, vc := b.x[a.idx][f], b.x[c.idx][f]
		switch {
		case va < vc:
			return -1
		case va > vc:
			return 1
		}
		return 0
	})

	b.tree.importances[f] += st.w*imp -
		sp.left.w*sp.left.impurity() -
		sp.right.w*sp.right.impurity()

	left := b.grow(samples[:sp.pos], depth+1)
	right := b.grow(samples[sp.pos:], depth+1)
	b.tree.nodes[id] = node{
		feature:   f,
		threshold: sp.threshold,
		left:      left,
		right:     right,
		value:     st.mean(),
	}
	return id
}

// bestSplit looks through all features and returns the split with the
// largest decrease of impurity.
func (b *builder) bestSplit(samples []sample, total stats) (split, bool) {
	var best split
	found := false
	buf := b.buf[:len(samples)]
	nFeatures := len(b.tree.importances)

	for f := range nFeatures {
		copy(buf, samples)
		slices.SortFunc(buf, func(a, c sample) int {
			va, vc := b.x[a.idx][f], b.x[c.idx][f]
			switch {
			case va < vc:
				return -1
			case va > vc:
				return 1
			}
			return 0
		})
		if b.x[buf[len(buf)-1].idx][f] <= b.x[buf[0].idx][f]+featureThreshold {
			continue
		}

		var left stats
		for i := 0; i < len(buf)-1; i++ {
			left.add(b.y[buf[i].idx], buf[i].w)
			cur, next := b.x[buf[i].idx][f], b.x[buf[i+1].idx][f]
			if next <= cur+featureThreshold {
				continue
			}
			right := stats{
				w:   total.w - left.w,
				sum: total.sum - left.sum,
				sq:  total.sq - left.sq,
			}
			proxy := left.sum*left.sum/left.w + right.sum*right.sum/right.w
			if !found || proxy > best.proxy {
				found = true
				threshold := cur/2 + next/2
				if threshold == next {
					threshold = cur
				}
				best = split{
					feature:   f,
					threshold: threshold,
					pos:       i + 1,
					proxy:     proxy,
					left:      left,
					right:     right,
				}
			}
		}
	}
	return best, found
}

// Predict returns the value of the leaf the row falls into.
func (t *Tree) Predict(row []float64) float64 {
	if len(t.nodes) == 0 {
		return 0
	}
	i := 0
	for !t.nodes[i].leaf {
		n := t.nodes[i]
		if row[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
	return t.nodes[i].value
}

func normalize(fs []float64) {
	var sum float64
	for _, v := range fs {
		sum += v
	}
	if sum <= 0 {
		return
	}
	for i := range fs {
		fs[i] /= sum
	}
}
