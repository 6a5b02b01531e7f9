// Package estimate implements the three-point (PERT) effort estimator
// for test tasks. Estimation is all-or-nothing across the four fixed
// phases: any invalid phase fails the whole computation before any
// figure is produced.
package estimate

import (
	"math"

	"github.com/testsprint/testsprint/internal/apperr"
	"github.com/testsprint/testsprint/pkg/models"
)

// Phase returns the PERT weighted average (O + 4M + P) / 6 in hours.
func Phase(o, m, p float64) float64 {
	return (o + 4*m + p) / 6
}

// Round1 rounds x to one decimal place, half away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ValidateTriple checks a single phase triple. A nil triple or a
// non-finite member fails with PERT_MISSING; an ordering violation
// (O <= M <= P) fails with PERT_ORDER. The phase name is carried as the
// offending field.
func ValidateTriple(phase models.PhaseName, e *models.Estimate) error {
	if e == nil {
		return apperr.Validationf(apperr.PertMissing, string(phase), "phase %s: O, M and P are required", phase)
	}
	for _, v := range []float64{e.O, e.M, e.P} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperr.Validationf(apperr.PertMissing, string(phase), "phase %s: O, M and P must be numbers", phase)
		}
	}
	if !(e.O <= e.M && e.M <= e.P) {
		return apperr.Validationf(apperr.PertOrder, string(phase), "phase %s: O <= M <= P violated", phase)
	}
	return nil
}

// TaskTotals validates all four phases and derives the task totals:
// per-phase PERT hours are summed, the sum is rounded to one decimal,
// and whole days are obtained by dividing by productiveHoursPerDay and
// rounding half away from zero. Rounding happens after summing, never
// per phase.
func TaskTotals(phases models.PhaseSet, productiveHoursPerDay float64) (models.Totals, error) {
	// Validate every phase before computing anything.
	for _, name := range models.PhaseOrder {
		if err := ValidateTriple(name, phases.Phase(name)); err != nil {
			return models.Totals{}, err
		}
	}

	var hours float64
	for _, name := range models.PhaseOrder {
		e := phases.Phase(name)
		hours += Phase(e.O, e.M, e.P)
	}

	rounded := Round1(hours)
	days := 0
	if productiveHoursPerDay > 0 {
		days = int(math.Round(rounded / productiveHoursPerDay))
	}
	return models.Totals{Hours: rounded, Days: days}, nil
}
