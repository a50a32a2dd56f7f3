package domain

// AgentStat would rank agents by resolved tickets. Not computed yet; the
// TopAgents slice in TicketStats is always empty.
type AgentStat struct {
	AgentID       string  `json:"agentId"`
	AgentName     string  `json:"agentName"`
	TicketsSolved int     `json:"ticketsSolved"`
	AvgRating     float64 `json:"avgRating"`
}

// TicketStats aggregates ticket counts and timing averages.
type TicketStats struct {
	Total                 int64                    `json:"total"`
	ByStatus              map[TicketStatus]int64   `json:"byStatus"`
	ByPriority            map[TicketPriority]int64 `json:"byPriority"`
	ByCategory            map[TicketCategory]int64 `json:"byCategory"`
	AvgResolutionHours    float64                  `json:"avgResolutionHours"`
	AvgFirstResponseHours float64                  `json:"avgFirstResponseHours"`
	AvgSatisfaction       float64                  `json:"avgSatisfaction"`
	SLABreached           int64                    `json:"slaBreached"`
	TopAgents             []AgentStat              `json:"topAgents"`
}
