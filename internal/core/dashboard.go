package core

import (
	"math"
	"time"

	"github.com/testsprint/testsprint/internal/estimate"
	"github.com/testsprint/testsprint/internal/schedule"
	"github.com/testsprint/testsprint/pkg/models"
)

// DashboardService reconciles a sprint's actual progress against the
// expected pace. It is read-only and may be invoked at any time.
type DashboardService interface {
	// Summary returns the dashboard for the given sprint, or (nil, nil)
	// when the sprint id does not resolve.
	Summary(sprintID string) (*models.SprintDashboard, error)
}

type dashboardService struct {
	sprints SprintRepository
	tasks   TaskRepository
	clock   schedule.Clock
	policy  Policy
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(sprints SprintRepository, tasks TaskRepository, clock schedule.Clock, policy Policy) DashboardService {
	return &dashboardService{sprints: sprints, tasks: tasks, clock: clock, policy: policy}
}

func (s *dashboardService) Summary(sprintID string) (*models.SprintDashboard, error) {
	sprint, err := s.sprints.FindByID(sprintID)
	if err != nil || sprint == nil {
		return nil, err
	}
	now := s.clock.Now()

	totals, err := ComputeSprintTotals(sprint, s.tasks, s.policy)
	if err != nil {
		return nil, err
	}

	// Member tasks, ignoring stale links.
	members := make([]*models.Task, 0, len(sprint.TaskIDs))
	for _, id := range sprint.TaskIDs {
		t, err := s.tasks.FindByID(id)
		if err != nil {
			return nil, err
		}
		if t != nil && t.SprintID == sprint.ID {
			members = append(members, t)
		}
	}

	var doneHours float64
	counts := make(map[models.TaskStatus]int, len(models.AllTaskStatuses))
	for _, st := range models.AllTaskStatuses {
		counts[st] = 0
	}
	var blocked []models.BlockedTaskInfo
	for _, t := range members {
		counts[t.Status]++
		if t.Status == models.StatusDone {
			doneHours += taskHours(t, s.policy)
		}
		if t.Status == models.StatusBlocked {
			info := models.BlockedTaskInfo{ID: t.ID, Title: t.Title}
			if t.Block != nil {
				info.Motivo = t.Block.Motivo
				info.ResponsavelID = t.Block.ResponsavelID
				info.AgeBusinessDays = schedule.BusinessDaysBetween(t.Block.BlockedAt, now)
			}
			blocked = append(blocked, info)
		}
	}

	real := 0.0
	if totals.Hours > 0 {
		real = doneHours / totals.Hours * 100
	}

	expected := 0.0
	if sprint.Status == models.SprintStarted && sprint.StartedAt != nil {
		planned := math.Ceil(totals.Days)
		if planned > 0 {
			passed := schedule.BusinessDaysBetween(*sprint.StartedAt, now)
			expected = float64(passed) / planned * 100
		}
	}

	light := models.LightGreen
	switch {
	case sprint.Status != models.SprintStarted:
		light = models.LightGreen
	case real < expected:
		light = models.LightRed
	case len(blocked) > 0:
		light = models.LightYellow
	}

	unassigned, err := s.unassigned(now)
	if err != nil {
		return nil, err
	}

	return &models.SprintDashboard{
		SprintID:         sprint.ID,
		SprintStatus:     sprint.Status,
		SprintStartedFlg: sprint.Status == models.SprintStarted,
		PlannedDays:      totals.Days,
		RealPercent:      estimate.Round1(real),
		ExpectedPercent:  estimate.Round1(expected),
		Light:            light,
		TasksByStatus:    counts,
		Blocked:          blocked,
		Unassigned:       unassigned,
	}, nil
}

// unassigned summarizes every task that belongs to no sprint.
func (s *dashboardService) unassigned(now time.Time) ([]models.UnassignedTaskInfo, error) {
	all, err := s.tasks.ListAll()
	if err != nil {
		return nil, err
	}
	var out []models.UnassignedTaskInfo
	for _, t := range all {
		if t.SprintID != "" {
			continue
		}
		out = append(out, models.UnassignedTaskInfo{
			ID:              t.ID,
			Title:           t.Title,
			Status:          t.Status,
			AgeBusinessDays: schedule.BusinessDaysBetween(t.CreatedAt, now),
		})
	}
	return out, nil
}
