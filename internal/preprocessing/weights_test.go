package preprocessing

import (
	"math"
	"testing"

	"bayesclassifier/internal/data"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRemoveDuplicatesFoldsWeights(t *testing.T) {
	domain := data.NewDomain(
		[]*data.Variable{data.NewDiscreteVariable("a", []string{"x", "y"})},
		data.NewDiscreteVariable("class", []string{"yes", "no"}),
	)
	table := data.NewTable(domain)
	add := func(a, c int) {
		ex := data.NewExample(domain)
		ex.Values[0] = data.IntValue(a)
		ex.Class = data.IntValue(c)
		table.Append(ex)
	}
	add(0, 0)
	add(0, 0)
	add(0, 0)
	add(1, 1)

	out, id, err := RemoveDuplicates{}.Apply(table, 0)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("dedup must allocate a fresh weight id")
	}

	result := out.(*data.Table)
	if result.Count() != 2 {
		t.Fatalf("count = %d, want 2", result.Count())
	}
	if got := data.Weight(result.Rows()[0], id); got != 3.0 {
		t.Fatalf("merged weight = %v, want 3", got)
	}
	if table.Count() != 4 {
		t.Fatal("dedup must not mutate the source")
	}
}

func TestRemoveDuplicatesIsFixedPoint(t *testing.T) {
	domain := data.NewDomain(
		[]*data.Variable{data.NewDiscreteVariable("a", []string{"x", "y"})},
		data.NewDiscreteVariable("class", []string{"yes", "no"}),
	)
	table := data.NewTable(domain)
	for i := 0; i < 4; i++ {
		ex := data.NewExample(domain)
		ex.Values[0] = data.IntValue(i % 2)
		ex.Class = data.IntValue(i % 2)
		table.Append(ex)
	}

	once, id1, err := RemoveDuplicates{}.Apply(table, 0)
	if err != nil {
		t.Fatal(err)
	}
	twice, id2, err := RemoveDuplicates{}.Apply(once, id1)
	if err != nil {
		t.Fatal(err)
	}

	a, b := once.(*data.Table), twice.(*data.Table)
	if a.Count() != b.Count() {
		t.Fatalf("counts diverged: %d vs %d", a.Count(), b.Count())
	}
	for i := range a.Rows() {
		if data.Weight(a.Rows()[i], id1) != data.Weight(b.Rows()[i], id2) {
			t.Fatal("weights diverged on the second pass")
		}
	}
}

func imbalancedTable() *data.Table {
	domain := data.NewDomain(
		[]*data.Variable{data.NewDiscreteVariable("a", []string{"x", "y"})},
		data.NewDiscreteVariable("class", []string{"major", "minor"}),
	)
	table := data.NewTable(domain)
	add := func(c int) {
		ex := data.NewExample(domain)
		ex.Values[0] = data.IntValue(0)
		ex.Class = data.IntValue(c)
		table.Append(ex)
	}
	add(0)
	add(0)
	add(0)
	add(1)
	return table
}

func TestCostWeightEqualizeBalancesMass(t *testing.T) {
	out, id, err := CostWeight{Equalize: true}.Apply(imbalancedTable(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("equalizing must allocate a weight id")
	}

	mass := map[int]float64{}
	it := out.Examples()
	for ex, ok := it.Next(); ok; ex, ok = it.Next() {
		mass[ex.Class.Index] += data.Weight(ex, id)
	}
	if !almostEqual(mass[0], mass[1]) {
		t.Fatalf("class masses = %v, want equal", mass)
	}
	if !almostEqual(mass[0]+mass[1], 4.0) {
		t.Fatalf("total mass = %v, want preserved at 4", mass[0]+mass[1])
	}
}

func TestCostWeightExplicitFactors(t *testing.T) {
	out, id, err := CostWeight{ClassWeights: []float64{2.0}}.Apply(imbalancedTable(), 0)
	if err != nil {
		t.Fatal(err)
	}

	it := out.Examples()
	for ex, ok := it.Next(); ok; ex, ok = it.Next() {
		want := 1.0
		if ex.Class.Index == 0 {
			want = 2.0
		}
		if got := data.Weight(ex, id); !almostEqual(got, want) {
			t.Fatalf("weight for class %d = %v, want %v", ex.Class.Index, got, want)
		}
	}
}

func TestCostWeightNoopReturnsUnitWeights(t *testing.T) {
	_, id, err := CostWeight{}.Apply(imbalancedTable(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if id != 0 {
		t.Fatalf("no-op must keep weight id 0, got %d", id)
	}
}

func TestCostWeightRequiresDiscreteClass(t *testing.T) {
	noClass := data.NewTable(data.NewDomain(
		[]*data.Variable{data.NewDiscreteVariable("a", []string{"x"})}, nil))
	if _, _, err := (CostWeight{Equalize: true}).Apply(noClass, 0); err == nil {
		t.Fatal("expected an error for a class-less domain")
	}
}

func survivalTable(timeID int) *data.Table {
	domain := data.NewDomain(
		[]*data.Variable{data.NewDiscreteVariable("a", []string{"x", "y"})},
		data.NewDiscreteVariable("outcome", []string{"censored", "event"}),
	)
	table := data.NewTable(domain)
	add := func(outcome int, time float64, hasTime bool) {
		ex := data.NewExample(domain)
		ex.Values[0] = data.IntValue(0)
		ex.Class = data.IntValue(outcome)
		if hasTime {
			ex.SetMeta(timeID, data.FloatValue(time))
		}
		table.Append(ex)
	}
	add(1, 5.0, true)
	add(0, 2.0, true)
	add(0, 0, false)
	return table
}

func TestCensorWeightLinear(t *testing.T) {
	timeID := data.NewMetaID()
	table := survivalTable(timeID)

	out, id, err := CensorWeight{
		Outcome:    table.Domain().Class,
		EventValue: 1,
		TimeID:     timeID,
		Method:     MethodLinear,
	}.Apply(table, 0)
	if err != nil {
		t.Fatal(err)
	}

	rows := out.(*data.Table).Rows()
	if got := data.Weight(rows[0], id); !almostEqual(got, 1.0) {
		t.Fatalf("event weight = %v, want 1", got)
	}
	if got := data.Weight(rows[1], id); !almostEqual(got, 2.0/5.0) {
		t.Fatalf("censored weight = %v, want 2/5", got)
	}
	if got := data.Weight(rows[2], id); got != 0.0 {
		t.Fatalf("timeless weight = %v, want 0", got)
	}
}

func TestCensorWeightLinearExplicitMaxTime(t *testing.T) {
	timeID := data.NewMetaID()
	table := survivalTable(timeID)

	out, id, err := CensorWeight{
		Outcome:    table.Domain().Class,
		EventValue: 1,
		TimeID:     timeID,
		Method:     MethodLinear,
		MaxTime:    10.0,
	}.Apply(table, 0)
	if err != nil {
		t.Fatal(err)
	}
	rows := out.(*data.Table).Rows()
	if got := data.Weight(rows[1], id); !almostEqual(got, 0.2) {
		t.Fatalf("censored weight = %v, want 0.2", got)
	}
}

func TestCensorWeightKMKeepsEventWeights(t *testing.T) {
	timeID := data.NewMetaID()
	table := survivalTable(timeID)

	out, id, err := CensorWeight{
		Outcome:    table.Domain().Class,
		EventValue: 1,
		TimeID:     timeID,
		Method:     MethodKM,
	}.Apply(table, 0)
	if err != nil {
		t.Fatal(err)
	}

	rows := out.(*data.Table).Rows()
	if got := data.Weight(rows[0], id); !almostEqual(got, 1.0) {
		t.Fatalf("event weight = %v, want 1", got)
	}
	censored := data.Weight(rows[1], id)
	if censored < 0 || censored > 1 {
		t.Fatalf("censored weight = %v, want a failure probability", censored)
	}
	if got := data.Weight(rows[2], id); got != 0.0 {
		t.Fatalf("timeless weight = %v, want 0", got)
	}
}

func TestCensorWeightValidation(t *testing.T) {
	timeID := data.NewMetaID()
	table := survivalTable(timeID)
	outcome := table.Domain().Class

	tests := []struct {
		name string
		prep CensorWeight
	}{
		{name: "no outcome", prep: CensorWeight{TimeID: timeID}},
		{name: "continuous outcome", prep: CensorWeight{Outcome: data.NewContinuousVariable("t"), TimeID: timeID}},
		{name: "bad event value", prep: CensorWeight{Outcome: outcome, EventValue: 7, TimeID: timeID}},
		{name: "no time id", prep: CensorWeight{Outcome: outcome, EventValue: 1}},
		{name: "bad method", prep: CensorWeight{Outcome: outcome, EventValue: 1, TimeID: timeID, Method: CensorMethod(99)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.prep.Apply(table, 0); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestCensorWeightDiscreteTimeFails(t *testing.T) {
	timeID := data.NewMetaID()
	table := survivalTable(timeID)
	table.Rows()[0].SetMeta(timeID, data.IntValue(3))

	_, _, err := CensorWeight{
		Outcome:    table.Domain().Class,
		EventValue: 1,
		TimeID:     timeID,
		Method:     MethodLinear,
	}.Apply(table, 0)
	if err == nil {
		t.Fatal("expected an error for a non-continuous time value")
	}
}
