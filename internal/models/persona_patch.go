package models

import "time"

// PersonaPatch is a partial update. Nil fields keep the current value.
// The id and creation time are not patchable.
type PersonaPatch struct {
	Name              *string        `json:"name,omitempty"`
	Description       *string        `json:"description,omitempty"`
	Avatar            *string        `json:"avatar,omitempty"`
	Type              *PersonaType   `json:"type,omitempty"`
	Specialty         *string        `json:"specialty,omitempty"`
	Personality       *[]string      `json:"personality,omitempty"`
	ConversationStyle *string        `json:"conversationStyle,omitempty"`
	Expertise         *[]string      `json:"expertise,omitempty"`
	Mood              *string        `json:"mood,omitempty"`
	ResponseStyle     *ResponseStyle `json:"responseStyle,omitempty"`
	Languages         *[]string      `json:"languages,omitempty"`
	Topics            *[]string      `json:"topics,omitempty"`
	Greeting          *string        `json:"greeting,omitempty"`
	Catchphrase       *string        `json:"catchphrase,omitempty"`
	LastUsed          *time.Time     `json:"lastUsed,omitempty"`
	TotalChats        *int           `json:"totalChats,omitempty"`
	TotalMessages     *int           `json:"totalMessages,omitempty"`
	AvgChatDuration   *float64       `json:"avgChatDuration,omitempty"`
	Status            *Status        `json:"status,omitempty"`
	Tags              *[]string      `json:"tags,omitempty"`
	Rating            *float64       `json:"rating,omitempty"`
	FavoriteCount     *int           `json:"favoriteCount,omitempty"`
}

// Apply shallow-merges the set fields of the patch over p and returns the result.
func (pp PersonaPatch) Apply(p Persona) Persona {
	out := p.Clone()
	setString(&out.Name, pp.Name)
	setString(&out.Description, pp.Description)
	setString(&out.Avatar, pp.Avatar)
	if pp.Type != nil {
		out.Type = *pp.Type
	}
	setString(&out.Specialty, pp.Specialty)
	setStrings(&out.Personality, pp.Personality)
	setString(&out.ConversationStyle, pp.ConversationStyle)
	setStrings(&out.Expertise, pp.Expertise)
	setString(&out.Mood, pp.Mood)
	if pp.ResponseStyle != nil {
		out.ResponseStyle = *pp.ResponseStyle
	}
	setStrings(&out.Languages, pp.Languages)
	setStrings(&out.Topics, pp.Topics)
	setString(&out.Greeting, pp.Greeting)
	setString(&out.Catchphrase, pp.Catchphrase)
	if pp.LastUsed != nil {
		out.LastUsed = pp.LastUsed.UTC()
	}
	if pp.TotalChats != nil {
		out.TotalChats = *pp.TotalChats
	}
	if pp.TotalMessages != nil {
		out.TotalMessages = *pp.TotalMessages
	}
	if pp.AvgChatDuration != nil {
		out.AvgChatDuration = *pp.AvgChatDuration
	}
	if pp.Status != nil {
		out.Status = *pp.Status
	}
	setStrings(&out.Tags, pp.Tags)
	if pp.Rating != nil {
		out.Rating = *pp.Rating
	}
	if pp.FavoriteCount != nil {
		out.FavoriteCount = *pp.FavoriteCount
	}
	return out
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setStrings(dst *[]string, src *[]string) {
	if src != nil {
		*dst = cloneStrings(*src)
	}
}
