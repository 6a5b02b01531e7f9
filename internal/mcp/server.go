// Package mcp provides an MCP (Model Context Protocol) server that exposes
// planner functionality as MCP tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/testsprint/testsprint/internal/core"
	"github.com/testsprint/testsprint/pkg/models"
)

// Server wraps the planner services and exposes them as MCP tools.
type Server struct {
	server  *gomcp.Server
	tasks   core.TaskService
	sprints core.SprintService
	dash    core.DashboardService
}

// NewServer creates an MCP server over the given planner services.
func NewServer(tasks core.TaskService, sprints core.SprintService, dash core.DashboardService, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		tasks:   tasks,
		sprints: sprints,
		dash:    dash,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "testsprint", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the unique task identifier (e.g. TSK-00042)"`
}

type estimateOutput struct {
	O float64 `json:"o"`
	M float64 `json:"m"`
	P float64 `json:"p"`
}

type taskOutput struct {
	ID           string                     `json:"id"`
	Title        string                     `json:"title"`
	Status       string                     `json:"status"`
	Hours        float64                    `json:"hours"`
	Days         int                        `json:"days"`
	AssigneeID   string                     `json:"assignee_id,omitempty"`
	SprintID     string                     `json:"sprint_id,omitempty"`
	DueDate      string                     `json:"due_date,omitempty"`
	Risco        string                     `json:"risco,omitempty"`
	Complexidade string                     `json:"complexidade,omitempty"`
	Phases       map[string]estimateOutput  `json:"phases,omitempty"`
	BlockMotivo  string                     `json:"block_motivo,omitempty"`
	Created      string                     `json:"created"`
	Updated      string                     `json:"updated"`
}

type listTasksInput struct {
	Status   string `json:"status,omitempty" jsonschema:"filter tasks by status (Backlog, Em Andamento, Bloqueada, Concluída)"`
	SprintID string `json:"sprint_id,omitempty" jsonschema:"filter tasks by sprint id"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type getSprintInput struct {
	SprintID string `json:"sprint_id" jsonschema:"required,the unique sprint identifier (e.g. SPR-00001)"`
}

type sprintOutput struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	TaskIDs  []string `json:"task_ids"`
	Junior   int      `json:"junior"`
	Pleno    int      `json:"pleno"`
	Senior   int      `json:"senior"`
	Started  string   `json:"started,omitempty"`
	DueDate  string   `json:"due_date,omitempty"`
	ClosedAt string   `json:"closed_at,omitempty"`
}

type dashboardInput struct {
	SprintID string `json:"sprint_id" jsonschema:"required,the sprint to compute the dashboard for"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get task details by ID. Returns the full task including phase estimates, effort totals, status, and due date.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks with optional status and sprint filters. Returns an array of task summaries.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_sprint",
		Description: "Get sprint details by ID: status, staffing mix, membership, and dates.",
	}, s.handleGetSprint)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "sprint_dashboard",
		Description: "Compute the progress dashboard of a sprint: real vs expected progress, traffic-light health, tasks by status, blocked and unallocated tasks.",
	}, s.handleDashboard)
}

// --- Tool handlers ---

func (s *Server) handleGetTask(_ context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}

	task, err := s.tasks.Get(input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	if task == nil {
		return errorResult(fmt.Sprintf("task %s not found", input.TaskID)), taskOutput{}, nil
	}

	return nil, taskToOutput(task), nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	tasks, err := s.tasks.List(core.TaskFilter{
		Status:   models.TaskStatus(input.Status),
		SprintID: input.SprintID,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}

	return nil, out, nil
}

func (s *Server) handleGetSprint(_ context.Context, _ *gomcp.CallToolRequest, input getSprintInput) (*gomcp.CallToolResult, sprintOutput, error) {
	if input.SprintID == "" {
		return errorResult("sprint_id is required"), sprintOutput{}, nil
	}

	sprint, err := s.sprints.Get(input.SprintID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting sprint %s: %s", input.SprintID, err)), sprintOutput{}, nil
	}
	if sprint == nil {
		return errorResult(fmt.Sprintf("sprint %s not found", input.SprintID)), sprintOutput{}, nil
	}

	out := sprintOutput{
		ID:      sprint.ID,
		Name:    sprint.Name,
		Status:  string(sprint.Status),
		TaskIDs: sprint.TaskIDs,
		Junior:  sprint.Capacity.Junior,
		Pleno:   sprint.Capacity.Pleno,
		Senior:  sprint.Capacity.Senior,
	}
	if sprint.StartedAt != nil {
		out.Started = sprint.StartedAt.Format(time.RFC3339)
	}
	if sprint.DueDate != nil {
		out.DueDate = sprint.DueDate.Format(time.RFC3339)
	}
	if sprint.ClosedAt != nil {
		out.ClosedAt = sprint.ClosedAt.Format(time.RFC3339)
	}

	return nil, out, nil
}

func (s *Server) handleDashboard(_ context.Context, _ *gomcp.CallToolRequest, input dashboardInput) (*gomcp.CallToolResult, *models.SprintDashboard, error) {
	if input.SprintID == "" {
		return errorResult("sprint_id is required"), nil, nil
	}

	d, err := s.dash.Summary(input.SprintID)
	if err != nil {
		return errorResult(fmt.Sprintf("computing dashboard for %s: %s", input.SprintID, err)), nil, nil
	}
	if d == nil {
		return errorResult(fmt.Sprintf("sprint %s not found", input.SprintID)), nil, nil
	}

	return nil, d, nil
}

// --- Helpers ---

func taskToOutput(t *models.Task) taskOutput {
	out := taskOutput{
		ID:           t.ID,
		Title:        t.Title,
		Status:       string(t.Status),
		AssigneeID:   t.AssigneeID,
		SprintID:     t.SprintID,
		Risco:        t.Risco,
		Complexidade: t.Complexidade,
		Created:      t.CreatedAt.Format(time.RFC3339),
		Updated:      t.UpdatedAt.Format(time.RFC3339),
	}
	if t.Totals != nil {
		out.Hours = t.Totals.Hours
		out.Days = t.Totals.Days
	}
	if t.DueDate != nil {
		out.DueDate = t.DueDate.Format(time.RFC3339)
	}
	if t.Block != nil && t.Block.ResolvedAt == nil {
		out.BlockMotivo = t.Block.Motivo
	}
	out.Phases = make(map[string]estimateOutput, len(models.PhaseOrder))
	for _, name := range models.PhaseOrder {
		if e := t.Phases.Phase(name); e != nil {
			out.Phases[string(name)] = estimateOutput{O: e.O, M: e.M, P: e.P}
		}
	}
	return out
}

func errorResult(message string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		IsError: true,
		Content: []gomcp.Content{&gomcp.TextContent{Text: message}},
	}
}
