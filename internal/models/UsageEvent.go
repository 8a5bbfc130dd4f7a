package models

// UsageEvent is one day of chat activity for one persona.
// PersonaName is a display copy taken when the event was recorded.
type UsageEvent struct {
	Date        string `json:"date"`
	Chats       int    `json:"chats"`
	Messages    int    `json:"messages"`
	PersonaID   string `json:"personaId"`
	PersonaName string `json:"personaName"`
}

type DailyUsage struct {
	Date     string `json:"date"`
	Chats    int    `json:"chats"`
	Messages int    `json:"messages"`
}

// SanitizeUsage drops events without a date and clamps negative counts to zero.
func SanitizeUsage(events []UsageEvent) []UsageEvent {
	out := make([]UsageEvent, 0, len(events))
	for _, e := range events {
		if e.Date == "" {
			continue
		}
		e.Chats = max(e.Chats, 0)
		e.Messages = max(e.Messages, 0)
		out = append(out, e)
	}
	return out
}
