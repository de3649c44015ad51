package models

import "time"

// DashboardPayload is the response of GET /api/dashboard. Every slice is
// non-nil so it serialises as [] for an empty tenant.
type DashboardPayload struct {
	Metrics          DashboardMetrics  `json:"metrics"`
	ProjectsByStatus []StatusCount     `json:"projectsByStatus"`
	RecentProjects   []ProjectSummary  `json:"recentProjects"`
	ProjectsOverTime []MonthCount      `json:"projectsOverTime"`
	BudgetByCategory []CategoryBudget  `json:"budgetByCategory"`
	ProcurementModes []ProcurementMode `json:"procurementModes"`
}

// DashboardMetrics holds the headline counters.
type DashboardMetrics struct {
	TotalProjects     int64   `json:"totalProjects"`
	ActiveProjects    int64   `json:"activeProjects"`
	TotalBudget       float64 `json:"totalBudget"`
	CompletedProjects int64   `json:"completedProjects"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// MonthCount counts projects created in Month, formatted YYYY-MM.
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type CategoryBudget struct {
	Category    string  `json:"category"`
	TotalBudget float64 `json:"totalBudget"`
	Count       int64   `json:"count"`
}

type ProcurementMode struct {
	Mode  string `json:"mode"`
	Count int64  `json:"count"`
}

// ProjectSummary is the reduced project shape listed on the dashboard.
type ProjectSummary struct {
	ID              string     `json:"id"`
	ReferenceNumber string     `json:"referenceNumber"`
	Title           string     `json:"title"`
	ProcuringEntity string     `json:"procuringEntity"`
	ABC             float64    `json:"abc"`
	Category        *string    `json:"category,omitempty"`
	ProcurementMode *string    `json:"procurementMode,omitempty"`
	Status          string     `json:"status"`
	ClosingAt       *string    `json:"closingAt,omitempty"`
	ParsedClosingAt *time.Time `json:"parsedClosingAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// EmptyDashboard returns a payload with zero metrics and empty groupings.
func EmptyDashboard() *DashboardPayload {
	return &DashboardPayload{
		ProjectsByStatus: []StatusCount{},
		RecentProjects:   []ProjectSummary{},
		ProjectsOverTime: []MonthCount{},
		BudgetByCategory: []CategoryBudget{},
		ProcurementModes: []ProcurementMode{},
	}
}
