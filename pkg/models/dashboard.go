package models

// TrafficLight is the three-valued health indicator of a sprint.
type TrafficLight string

const (
	LightGreen  TrafficLight = "Verde"
	LightYellow TrafficLight = "Amarelo"
	LightRed    TrafficLight = "Vermelho"
)

// BlockedTaskInfo is one row of the dashboard's blocked-task detail list.
type BlockedTaskInfo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Motivo        string `json:"motivo"`
	ResponsavelID string `json:"responsavelId"`
	// AgeBusinessDays counts business days since the block was opened.
	AgeBusinessDays int `json:"idade_do_bloqueio_dias"`
}

// UnassignedTaskInfo is one row of the dashboard's summary of tasks that
// belong to no sprint.
type UnassignedTaskInfo struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Status TaskStatus `json:"status"`
	// AgeBusinessDays counts business days since the task was created.
	AgeBusinessDays int `json:"idade_dias"`
}

// SprintDashboard reconciles a sprint's actual progress against the
// expected pace. Field names on the wire follow the legacy report
// consumed by the QA dashboards.
type SprintDashboard struct {
	SprintID         string               `json:"sprint_id"`
	SprintStatus     SprintStatus         `json:"sprint_status"`
	SprintStartedFlg bool                 `json:"sprint_iniciada"`
	PlannedDays      float64              `json:"dias_sprint"`
	RealPercent      float64              `json:"progresso_real_percent"`
	ExpectedPercent  float64              `json:"progresso_esperado_percent"`
	Light            TrafficLight         `json:"status_semaforo"`
	TasksByStatus    map[TaskStatus]int   `json:"tarefas_por_status"`
	Blocked          []BlockedTaskInfo    `json:"bloqueadas"`
	Unassigned       []UnassignedTaskInfo `json:"nao_alocadas"`
}
