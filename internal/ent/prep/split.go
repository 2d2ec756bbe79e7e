package prep

import (
	"math"
	"math/rand/v2"
)

// TrainTestSplit shuffles row indices with a seed and returns ceil(n*testSize)
// of them as the test set and the rest as the train set.
func TrainTestSplit(n int, testSize float64, seed uint64) (train, test []int) {
	nTest := int(math.Ceil(float64(n) * testSize))
	nTest = min(max(nTest, 0), n)
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)
	return perm[nTest:], perm[:nTest]
}
