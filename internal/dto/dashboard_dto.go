package dto

// GroupProgress summarizes report completion for one group.
type GroupProgress struct {
	GroupID   uint   `json:"group_id"`
	GroupName string `json:"group_name"`
	Players   int    `json:"players"`
	Submitted int    `json:"submitted"`
}

// CoachProgress summarizes report completion for one coach.
type CoachProgress struct {
	CoachID   uint   `json:"coach_id"`
	CoachName string `json:"coach_name"`
	Players   int    `json:"players"`
	Submitted int    `json:"submitted"`
}

// DashboardResponse aggregates a club's programme state for one period.
type DashboardResponse struct {
	PeriodID         uint            `json:"teaching_period_id"`
	TotalPlayers     int             `json:"total_players"`
	ReportsSubmitted int             `json:"reports_submitted"`
	ReportsPending   int             `json:"reports_pending"`
	Groups           []GroupProgress `json:"groups"`
	Coaches          []CoachProgress `json:"coaches"`
}
