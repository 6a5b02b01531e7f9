package core

import (
	"github.com/testsprint/testsprint/internal/estimate"
	"github.com/testsprint/testsprint/pkg/models"
)

// SprintTotals is the aggregate effort picture of a sprint.
type SprintTotals struct {
	// Hours is the sum of member task effort hours.
	Hours float64
	// Days is Hours divided by the daily capacity, rounded to one
	// decimal. 0 when the sprint has no capacity.
	Days float64
	// CapacityPerDay is the daily throughput of the staffing mix.
	CapacityPerDay float64
}

// CapacityPerDay converts a staffing mix into effort hours per day.
// Negative headcounts are treated as zero.
func CapacityPerDay(c models.Capacity, p Policy) float64 {
	return float64(clampHeadcount(c.Junior))*p.JuniorHoursPerDay +
		float64(clampHeadcount(c.Pleno))*p.PlenoHoursPerDay +
		float64(clampHeadcount(c.Senior))*p.SeniorHoursPerDay
}

// ComputeSprintTotals sums effort hours over the sprint's member tasks.
// Tasks whose SprintID no longer points back at the sprint are stale
// links and are ignored. A task without cached totals is re-estimated
// from its phases; a task whose phases fail estimation contributes zero.
func ComputeSprintTotals(s *models.Sprint, tasks TaskRepository, p Policy) (SprintTotals, error) {
	var hours float64
	for _, id := range s.TaskIDs {
		t, err := tasks.FindByID(id)
		if err != nil {
			return SprintTotals{}, err
		}
		if t == nil || t.SprintID != s.ID {
			continue
		}
		hours += taskHours(t, p)
	}

	perDay := CapacityPerDay(s.Capacity, p)
	days := 0.0
	if perDay > 0 {
		days = estimate.Round1(hours / perDay)
	}
	return SprintTotals{Hours: hours, Days: days, CapacityPerDay: perDay}, nil
}

// taskHours returns the cached effort hours of a task, re-estimating
// when the cache is absent. Unestimable phases count as zero.
func taskHours(t *models.Task, p Policy) float64 {
	if t.Totals != nil {
		return t.Totals.Hours
	}
	totals, err := estimate.TaskTotals(t.Phases, p.ProductiveHoursPerDay)
	if err != nil {
		return 0
	}
	return totals.Hours
}

func clampHeadcount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
