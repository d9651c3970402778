package data

import "testing"

func TestDrawIndicesProportions(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		proportion float64
		want       int
	}{
		{name: "none", n: 10, proportion: 0.0, want: 0},
		{name: "half", n: 10, proportion: 0.5, want: 5},
		{name: "rounds", n: 10, proportion: 0.26, want: 3},
		{name: "all", n: 10, proportion: 1.0, want: 10},
		{name: "clamped", n: 4, proportion: 2.0, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := NewRandom(1).DrawIndices(tt.n, tt.proportion)
			set := 0
			for _, m := range mask {
				if m {
					set++
				}
			}
			if set != tt.want {
				t.Fatalf("set = %d, want %d", set, tt.want)
			}
		})
	}
}

func TestDrawIndicesDeterministic(t *testing.T) {
	a := NewRandom(7).DrawIndices(20, 0.5)
	b := NewRandom(7).DrawIndices(20, 0.5)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("same seed must draw the same mask")
		}
	}
}

func TestDrawValueDiscreteStaysInLexicon(t *testing.T) {
	v := NewDiscreteVariable("color", []string{"red", "green", "blue"})
	rnd := NewRandom(3)
	for i := 0; i < 50; i++ {
		val := rnd.DrawValue(v)
		if val.IsMissing() || val.Index < 0 || val.Index >= 3 {
			t.Fatalf("drew out-of-lexicon value %+v", val)
		}
	}
}

func TestDrawValueContinuousStaysInRange(t *testing.T) {
	v := NewContinuousVariable("x")
	v.Observe(FloatValue(-2).Num)
	v.Observe(FloatValue(5).Num)
	rnd := NewRandom(3)
	for i := 0; i < 50; i++ {
		val := rnd.DrawValue(v)
		if f := val.Float(); f < -2 || f > 5 {
			t.Fatalf("drew %v outside [-2, 5]", f)
		}
	}
}

func TestDrawValueEmptyLexiconIsMissing(t *testing.T) {
	v := NewDiscreteVariable("empty", nil)
	if !NewRandom(0).DrawValue(v).IsMissing() {
		t.Fatal("empty lexicon should draw a missing value")
	}
}
