package split

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

// DefaultSeed matches the seed the training scripts have always used.
const DefaultSeed = 42

// Options controls a train/test split.
type Options struct {
	TestSize float64 // fraction of rows held out, in (0,1)
	Stratify bool    // preserve label proportions in both parts
	Seed     int64
}

// TrainTest splits row indices of labels into train and test parts.
// The same labels and options always yield the same split. Both parts are
// returned in ascending index order.
func TrainTest(labels []string, opts Options) (train, test []int, err error) {
	n := len(labels)
	if opts.TestSize <= 0 || opts.TestSize >= 1 {
		return nil, nil, fmt.Errorf("%w: test size %v outside (0,1)", internalerr.ErrInvalidInput, opts.TestSize)
	}
	nTest := int(math.Ceil(opts.TestSize * float64(n)))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return nil, nil, fmt.Errorf("%w: %d rows cannot be split with test size %v", internalerr.ErrInvalidInput, n, opts.TestSize)
	}

	rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)^0x9e3779b97f4a7c15))
	if opts.Stratify {
		train, test, err = stratified(labels, nTest, rng)
	} else {
		perm := rng.Perm(n)
		test = append(test, perm[:nTest]...)
		train = append(train, perm[nTest:]...)
	}
	if err != nil {
		return nil, nil, err
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

func stratified(labels []string, nTest int, rng *rand.Rand) (train, test []int, err error) {
	n := len(labels)
	byClass := make(map[string][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]string, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	for _, c := range classes {
		if len(byClass[c]) < 2 {
			return nil, nil, fmt.Errorf("%w: class %q has %d member, need at least 2", internalerr.ErrStratification, c, len(byClass[c]))
		}
	}
	if nTest < len(classes) || n-nTest < len(classes) {
		return nil, nil, fmt.Errorf("%w: train size %d and test size %d must both be at least the number of classes %d",
			internalerr.ErrStratification, n-nTest, nTest, len(classes))
	}

	quota := allocate(classes, byClass, nTest, n)
	for i, c := range classes {
		rows := byClass[c]
		rng.Shuffle(len(rows), func(a, b int) { rows[a], rows[b] = rows[b], rows[a] })
		test = append(test, rows[:quota[i]]...)
		train = append(train, rows[quota[i]:]...)
	}
	return train, test, nil
}

// allocate spreads nTest held-out rows over classes in proportion to class
// size. Every class first gets its proportional share bounded so that it
// keeps at least one row on each side; the total is then brought to exactly
// nTest one row at a time, giving to the class furthest below its exact
// share or taking from the class furthest above it (ties to the class that
// sorts first). The caller guarantees k <= nTest <= n-k for k classes of at
// least two rows, so the bounds always admit nTest.
func allocate(classes []string, byClass map[string][]int, nTest, n int) []int {
	quota := make([]int, len(classes))
	exact := make([]float64, len(classes))
	given := 0
	for i, c := range classes {
		size := len(byClass[c])
		exact[i] = float64(size) * float64(nTest) / float64(n)
		quota[i] = min(max(int(math.Floor(exact[i])), 1), size-1)
		given += quota[i]
	}

	for given != nTest {
		best := -1
		for i, c := range classes {
			if given < nTest {
				if quota[i] >= len(byClass[c])-1 {
					continue
				}
				if best < 0 || exact[i]-float64(quota[i]) > exact[best]-float64(quota[best]) {
					best = i
				}
			} else {
				if quota[i] <= 1 {
					continue
				}
				if best < 0 || exact[i]-float64(quota[i]) < exact[best]-float64(quota[best]) {
					best = i
				}
			}
		}
		if best < 0 {
			break
		}
		if given < nTest {
			quota[best]++
			given++
		} else {
			quota[best]--
			given--
		}
	}
	return quota
}
