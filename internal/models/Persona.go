package models

import "time"

type PersonaType string

const (
	TypeAssistant PersonaType = "assistant"
	TypeMentor    PersonaType = "mentor"
	TypeFriend    PersonaType = "friend"
	TypeExpert    PersonaType = "expert"
	TypeCreative  PersonaType = "creative"
	TypeTherapist PersonaType = "therapist"
)

// PersonaTypes lists every persona type in display order.
var PersonaTypes = []PersonaType{TypeAssistant, TypeMentor, TypeFriend, TypeExpert, TypeCreative, TypeTherapist}

type ResponseStyle string

const (
	StyleFormal       ResponseStyle = "formal"
	StyleCasual       ResponseStyle = "casual"
	StylePlayful      ResponseStyle = "playful"
	StyleProfessional ResponseStyle = "professional"
	StyleEmpathetic   ResponseStyle = "empathetic"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusArchived Status = "archived"
)

type Persona struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	Avatar            string        `json:"avatar"`
	Type              PersonaType   `json:"type"`
	Specialty         string        `json:"specialty"`
	Personality       []string      `json:"personality"`
	ConversationStyle string        `json:"conversationStyle"`
	Expertise         []string      `json:"expertise"`
	Mood              string        `json:"mood"`
	ResponseStyle     ResponseStyle `json:"responseStyle"`
	Languages         []string      `json:"languages"`
	Topics            []string      `json:"topics"`
	Greeting          string        `json:"greeting"`
	Catchphrase       string        `json:"catchphrase"`
	CreatedAt         time.Time     `json:"createdAt"`
	LastUsed          time.Time     `json:"lastUsed"`
	TotalChats        int           `json:"totalChats"`
	TotalMessages     int           `json:"totalMessages"`
	AvgChatDuration   float64       `json:"avgChatDuration"`
	Status            Status        `json:"status"`
	Tags              []string      `json:"tags"`
	Rating            float64       `json:"rating"`
	FavoriteCount     int           `json:"favoriteCount"`
}

// Clone returns a copy that shares no slices with p.
func (p Persona) Clone() Persona {
	p.Personality = cloneStrings(p.Personality)
	p.Expertise = cloneStrings(p.Expertise)
	p.Languages = cloneStrings(p.Languages)
	p.Topics = cloneStrings(p.Topics)
	p.Tags = cloneStrings(p.Tags)
	return p
}

func ClonePersonas(personas []Persona) []Persona {
	if personas == nil {
		return nil
	}
	out := make([]Persona, len(personas))
	for i, p := range personas {
		out[i] = p.Clone()
	}
	return out
}

// IndexOf returns the position of the persona with the given id, or -1.
func IndexOf(personas []Persona, id string) int {
	for i := range personas {
		if personas[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
