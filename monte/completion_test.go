package monte

import "testing"

func TestCompletionCheck_MaxCountAlwaysWins(t *testing.T) {
	c := &CompletionCheck{Params: CompletionCheckParams{MaxCount: 100}}
	st := c.Evaluate(NewSampler(), 100, 0)
	if !st.Done || st.Reason != "max_count" {
		t.Errorf("Evaluate = %+v, want Done with reason max_count", st)
	}
}

func TestCompletionCheck_MaxTimeAlwaysWins(t *testing.T) {
	c := &CompletionCheck{Params: CompletionCheckParams{MaxTime: 10}}
	st := c.Evaluate(NewSampler(), 0, 10)
	if !st.Done || st.Reason != "max_time" {
		t.Errorf("Evaluate = %+v, want Done with reason max_time", st)
	}
}

func TestCompletionCheck_NotDoneBeforeMinCount(t *testing.T) {
	c := &CompletionCheck{Params: CompletionCheckParams{MinCount: 50}}
	st := c.Evaluate(NewSampler(), 10, 0)
	if st.Done {
		t.Errorf("Evaluate = %+v, want not done before min_count", st)
	}
}

func TestCompletionCheck_DoneWithNoCriteriaAfterMinReached(t *testing.T) {
	c := &CompletionCheck{Params: CompletionCheckParams{MinCount: 10}}
	st := c.Evaluate(NewSampler(), 10, 0)
	if !st.Done || st.Reason != "min_reached" {
		t.Errorf("Evaluate = %+v, want Done with reason min_reached", st)
	}
}

func TestCompletionCheck_ConvergenceGatesOnPrecision(t *testing.T) {
	s := NewSampler()
	i := 0
	s.Register("e", func(state *State, extra map[string]float64) []float64 {
		i++
		return []float64{float64(i % 2)}
	})
	c := &CompletionCheck{Params: CompletionCheckParams{
		MinCount: 2,
		Criteria: []ConvergenceCriterion{{Quantity: "e", AbsolutePrecision: 1e-6}},
	}}
	for k := 0; k < 3; k++ {
		s.Sample(nil, nil, uint64(k), float64(k), 1)
	}
	st := c.Evaluate(s, 3, 0)
	if st.Done {
		t.Errorf("expected not converged with a noisy series and a tight precision target, got %+v", st)
	}
}

func TestCompletionCheck_ConvergesOnConstantSeries(t *testing.T) {
	s := NewSampler()
	s.Register("e", constantQuantity(5))
	for k := 0; k < 5; k++ {
		s.Sample(nil, nil, uint64(k), float64(k), 1)
	}
	c := &CompletionCheck{Params: CompletionCheckParams{
		MinCount: 2,
		Criteria: []ConvergenceCriterion{{Quantity: "e", AbsolutePrecision: 1e-6}},
	}}
	st := c.Evaluate(s, 5, 0)
	if !st.Done || st.Reason != "converged" {
		t.Errorf("Evaluate = %+v, want Done with reason converged", st)
	}
}

func TestSchedule_LinearSchedule(t *testing.T) {
	sch := LinearSchedule(ByPass, 10, 35)
	want := []uint64{10, 20, 30}
	if len(sch.Points) != len(want) {
		t.Fatalf("Points = %v, want %v", sch.Points, want)
	}
	for i := range want {
		if sch.Points[i] != want[i] {
			t.Errorf("Points[%d] = %v, want %v", i, sch.Points[i], want[i])
		}
	}
}

func TestSchedule_Due_AdvancesCursorOnce(t *testing.T) {
	sch := LinearSchedule(ByPass, 10, 20)
	cursor := 0
	if sch.Due(5, &cursor) {
		t.Error("Due(5) should be false, first point is 10")
	}
	if !sch.Due(10, &cursor) {
		t.Error("Due(10) should be true")
	}
	if sch.Due(10, &cursor) {
		t.Error("Due should not fire twice for the same point once cursor advanced")
	}
	if !sch.Due(25, &cursor) {
		t.Error("Due(25) should consume the remaining point (20)")
	}
	if sch.Due(100, &cursor) {
		t.Error("Due should return false once exhausted")
	}
}

func TestSchedule_LogSchedule_Ascending(t *testing.T) {
	sch := LogSchedule(ByStep, 2, 100)
	for i := 1; i < len(sch.Points); i++ {
		if sch.Points[i] <= sch.Points[i-1] {
			t.Errorf("LogSchedule not strictly ascending at %d: %v", i, sch.Points)
		}
	}
}
