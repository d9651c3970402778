package data

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// Random draws attribute values and selection masks from an explicit
// generator. One instance must not be shared across concurrent passes.
type Random struct {
	Rand *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{Rand: rand.New(rand.NewSource(seed))}
}

// DrawValue returns a uniformly random value of the variable: a uniform
// lexicon index for discrete variables, a uniform point in the observed
// [Min, Max] range for continuous ones.
func (r *Random) DrawValue(v *Variable) Value {
	if v.Type == Discrete {
		if len(v.Values) == 0 {
			return MissingValue(Discrete, DontKnow)
		}
		return IntValue(r.Rand.Intn(len(v.Values)))
	}
	lo, _ := v.Min.Float64()
	hi, _ := v.Max.Float64()
	return DecimalValue(decimal.NewFromFloat(lo + r.Rand.Float64()*(hi-lo)))
}

// DrawIndices returns a shuffled mask of n entries with round(proportion*n)
// of them set.
func (r *Random) DrawIndices(n int, proportion float64) []bool {
	mask := make([]bool, n)
	if proportion <= 0 {
		return mask
	}
	k := int(proportion*float64(n) + 0.5)
	if k > n {
		k = n
	}
	for i := 0; i < k; i++ {
		mask[i] = true
	}
	r.Rand.Shuffle(n, func(i, j int) {
		mask[i], mask[j] = mask[j], mask[i]
	})
	return mask
}
