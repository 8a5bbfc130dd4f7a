package models

// NoPersona is reported as the most popular persona when there is none to name.
const NoPersona = "None"

type DashboardStats struct {
	TotalPersonas      int          `json:"totalPersonas"`
	ActivePersonas     int          `json:"activePersonas"`
	TotalChats         int          `json:"totalChats"`
	TotalMessages      int          `json:"totalMessages"`
	AvgMessagesPerChat float64      `json:"avgMessagesPerChat"`
	MostPopularPersona string       `json:"mostPopularPersona"`
	RecentActivity     []UsageEvent `json:"recentActivity"`
	TopRatedPersonas   []Persona    `json:"topRatedPersonas"`
}

type TypeShare struct {
	Type  PersonaType `json:"type"`
	Count int         `json:"count"`
}

// ChatOutcome describes one finished chat: how many messages were exchanged
// and whether the user marked the persona as a favorite.
type ChatOutcome struct {
	Messages  int
	Favorited bool
}
