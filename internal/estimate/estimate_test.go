package estimate

import (
	"math"
	"testing"

	"github.com/testsprint/testsprint/internal/apperr"
	"github.com/testsprint/testsprint/pkg/models"
)

func est(o, m, p float64) *models.Estimate {
	return &models.Estimate{O: o, M: m, P: p}
}

func samplePhases() models.PhaseSet {
	return models.PhaseSet{
		AnalysisModeling: est(0.5, 1.0, 1.5),
		Execution:        est(1.0, 2.0, 3.0),
		Retest:           est(0.2, 0.5, 1.0),
		Documentation:    est(0.2, 0.5, 0.8),
	}
}

func TestPhase(t *testing.T) {
	tests := []struct {
		o, m, p float64
		want    float64
	}{
		{0.5, 1.0, 1.5, 1.0},
		{1.0, 2.0, 3.0, 2.0},
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{2, 5, 14, 6},
	}
	for _, tt := range tests {
		if got := Phase(tt.o, tt.m, tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Phase(%v, %v, %v) = %v, want %v", tt.o, tt.m, tt.p, got, tt.want)
		}
	}
}

// The reference scenario: per-phase hours 1.0, 2.0, 0.53, 0.5 sum to
// about 4.03; the sum is rounded after summing, giving 4.0 hours and
// round(4.0/6) = 1 day.
func TestTaskTotals_RoundingPipeline(t *testing.T) {
	totals, err := TaskTotals(samplePhases(), 6.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.Hours != 4.0 {
		t.Errorf("expected 4.0 hours, got %v", totals.Hours)
	}
	if totals.Days != 1 {
		t.Errorf("expected 1 day, got %d", totals.Days)
	}
}

func TestTaskTotals_MissingPhase(t *testing.T) {
	phases := samplePhases()
	phases.Retest = nil

	_, err := TaskTotals(phases, 6.0)
	if !apperr.HasCode(err, apperr.PertMissing) {
		t.Fatalf("expected PERT_MISSING, got %v", err)
	}
	var e *apperr.Error
	if !asAppErr(err, &e) || e.Field != string(models.PhaseRetest) {
		t.Errorf("expected offending field retest, got %+v", e)
	}
}

func TestTaskTotals_NaNValue(t *testing.T) {
	phases := samplePhases()
	phases.Execution = est(1.0, math.NaN(), 3.0)

	_, err := TaskTotals(phases, 6.0)
	if !apperr.HasCode(err, apperr.PertMissing) {
		t.Fatalf("expected PERT_MISSING for NaN, got %v", err)
	}
}

func TestTaskTotals_OrderViolation(t *testing.T) {
	phases := samplePhases()
	phases.Documentation = est(1.0, 0.5, 0.8)

	_, err := TaskTotals(phases, 6.0)
	if !apperr.HasCode(err, apperr.PertOrder) {
		t.Fatalf("expected PERT_ORDER, got %v", err)
	}
	var e *apperr.Error
	if !asAppErr(err, &e) || e.Field != string(models.PhaseDocumentation) {
		t.Errorf("expected offending field documentation, got %+v", e)
	}
}

func TestTaskTotals_EqualBoundsAllowed(t *testing.T) {
	phases := models.PhaseSet{
		AnalysisModeling: est(1, 1, 1),
		Execution:        est(2, 2, 2),
		Retest:           est(0, 0, 0),
		Documentation:    est(0.5, 0.5, 0.5),
	}
	totals, err := TaskTotals(phases, 6.0)
	if err != nil {
		t.Fatalf("O == M == P must be valid: %v", err)
	}
	if totals.Hours != 3.5 {
		t.Errorf("expected 3.5 hours, got %v", totals.Hours)
	}
}

func TestTaskTotals_DaysRoundHalfAwayFromZero(t *testing.T) {
	// 9.0 hours / 6.0 = 1.5 -> rounds to 2.
	phases := models.PhaseSet{
		AnalysisModeling: est(3, 3, 3),
		Execution:        est(3, 3, 3),
		Retest:           est(3, 3, 3),
		Documentation:    est(0, 0, 0),
	}
	totals, err := TaskTotals(phases, 6.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.Days != 2 {
		t.Errorf("expected 1.5 to round to 2 days, got %d", totals.Days)
	}
}

func TestValidateTriple_Nil(t *testing.T) {
	err := ValidateTriple(models.PhaseExecution, nil)
	if !apperr.HasCode(err, apperr.PertMissing) {
		t.Fatalf("expected PERT_MISSING for nil triple, got %v", err)
	}
}

func asAppErr(err error, target **apperr.Error) bool {
	e, ok := err.(*apperr.Error)
	if ok {
		*target = e
	}
	return ok
}
