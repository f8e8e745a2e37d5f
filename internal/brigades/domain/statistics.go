package domain

// Summary is the dashboard aggregate over a brigade snapshot.
type Summary struct {
	TotalBrigades         int                 `json:"totalBrigades"`
	ActiveBrigades        int                 `json:"activeBrigades"`
	OnMissionBrigades     int                 `json:"onMissionBrigades"`
	TotalMembers          int                 `json:"totalMembers"`
	TotalAssignedReports  int                 `json:"totalAssignedReports"`
	TotalCompletedReports int                 `json:"totalCompletedReports"`
	ByType                map[BrigadeType]int `json:"byType"`
}

// Summarize computes the summary with a single pass over brigades.
func Summarize(brigades []Brigade) Summary {
	s := Summary{ByType: make(map[BrigadeType]int, len(BrigadeTypes))}
	for _, t := range BrigadeTypes {
		s.ByType[t] = 0
	}

	for _, b := range brigades {
		s.TotalBrigades++
		switch b.Status {
		case StatusActiva:
			s.ActiveBrigades++
		case StatusEnMision:
			s.OnMissionBrigades++
		}
		s.TotalMembers += len(b.Members)
		s.TotalAssignedReports += len(b.AssignedReports)
		s.TotalCompletedReports += b.Stats.CompletedCount
		s.ByType[b.Type]++
	}
	return s
}
