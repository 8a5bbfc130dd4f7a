package models

import (
	"fmt"
	"strings"

	"github.com/gookit/validate"
)

const DefaultRating = 4.5

// PersonaInput is the create payload: every descriptive field of a persona,
// none of the fields the store owns (id, timestamps, counters).
type PersonaInput struct {
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
	Status            Status        `json:"status"`
	Tags              []string      `json:"tags"`
	Rating            float64       `json:"rating"`
}

// Normalize trims text fields, de-duplicates the list fields and applies the
// form defaults for status and rating.
func (in *PersonaInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Avatar = strings.TrimSpace(in.Avatar)
	in.Specialty = strings.TrimSpace(in.Specialty)
	in.ConversationStyle = strings.TrimSpace(in.ConversationStyle)
	in.Mood = strings.TrimSpace(in.Mood)
	in.Greeting = strings.TrimSpace(in.Greeting)
	in.Catchphrase = strings.TrimSpace(in.Catchphrase)

	in.Personality = UniqueStrings(in.Personality)
	in.Expertise = UniqueStrings(in.Expertise)
	in.Languages = UniqueStrings(in.Languages)
	in.Topics = UniqueStrings(in.Topics)
	in.Tags = UniqueStrings(in.Tags)

	if in.Status == "" {
		in.Status = StatusActive
	}
	if in.Rating == 0 {
		in.Rating = DefaultRating
	}
}

// Persona builds a record with zero counters; the caller assigns id and timestamps.
func (in PersonaInput) Persona() Persona {
	return Persona{
		Name:              in.Name,
		Description:       in.Description,
		Avatar:            in.Avatar,
		Type:              in.Type,
		Specialty:         in.Specialty,
		Personality:       cloneStrings(in.Personality),
		ConversationStyle: in.ConversationStyle,
		Expertise:         cloneStrings(in.Expertise),
		Mood:              in.Mood,
		ResponseStyle:     in.ResponseStyle,
		Languages:         cloneStrings(in.Languages),
		Topics:            cloneStrings(in.Topics),
		Greeting:          in.Greeting,
		Catchphrase:       in.Catchphrase,
		Status:            in.Status,
		Tags:              cloneStrings(in.Tags),
		Rating:            in.Rating,
	}
}

// UniqueStrings trims every value and drops blanks and repeats, keeping the first occurrence.
func UniqueStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

type personaRules struct {
	Name            string  `validate:"required"`
	Type            string  `validate:"required|in:assistant,mentor,friend,expert,creative,therapist"`
	ResponseStyle   string  `validate:"required|in:formal,casual,playful,professional,empathetic"`
	Status          string  `validate:"required|in:active,inactive,archived"`
	Rating          float64 `validate:"required|min:1|max:5"`
	TotalChats      int     `validate:"min:0"`
	TotalMessages   int     `validate:"min:0"`
	AvgChatDuration float64 `validate:"min:0"`
	FavoriteCount   int     `validate:"min:0"`
}

// ValidationError carries the per-field messages of a rejected persona.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "invalid persona: " + strings.Join(parts, "; ")
}

// ValidatePersona enforces the input constraints: a name, known enum values,
// a rating within [1,5] and non-negative counters.
func ValidatePersona(p Persona) error {
	rules := personaRules{
		Name:            strings.TrimSpace(p.Name),
		Type:            string(p.Type),
		ResponseStyle:   string(p.ResponseStyle),
		Status:          string(p.Status),
		Rating:          p.Rating,
		TotalChats:      p.TotalChats,
		TotalMessages:   p.TotalMessages,
		AvgChatDuration: p.AvgChatDuration,
		FavoriteCount:   p.FavoriteCount,
	}

	v := validate.Struct(&rules)
	v.StopOnError = false
	if v.Validate() {
		return nil
	}

	fields := make(map[string]string, len(v.Errors))
	for field, msgs := range v.Errors {
		fields[field] = msgs.One()
	}
	return &ValidationError{Fields: fields}
}
