package presentation

import (
	"time"

	"github.com/zjrosen/wsrepo/internal/changelog"
	"github.com/zjrosen/wsrepo/internal/repository"
	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

// DefinitionDTO represents a writing system definition for presentation
type DefinitionDTO struct {
	ID              string     `json:"id"`
	StoreID         string     `json:"store_id,omitempty"`
	Language        string     `json:"language"`
	Script          string     `json:"script,omitempty"`
	Region          string     `json:"region,omitempty"`
	Variant         string     `json:"variant,omitempty"`
	Label           string     `json:"label"`
	Description     string     `json:"description"`
	Abbreviation    string     `json:"abbreviation,omitempty"`
	LanguageName    string     `json:"language_name,omitempty"`
	Keyboard        string     `json:"keyboard,omitempty"`
	DefaultFontName string     `json:"default_font_name,omitempty"`
	DefaultFontSize float64    `json:"default_font_size,omitempty"`
	RightToLeft     bool       `json:"right_to_left"`
	IsVoice         bool       `json:"is_voice"`
	Ipa             string     `json:"ipa"`
	SortUsing       string     `json:"sort_using"`
	SpellCheckingID string     `json:"spell_checking_id,omitempty"`
	DateModified    *time.Time `json:"date_modified,omitempty"`
	Modified        bool       `json:"modified"`
}

// ProblemDTO represents a per-file load or save problem
type ProblemDTO struct {
	File        string `json:"file"`
	Consequence string `json:"consequence"`
	Error       string `json:"error"`
}

// ChangeDTO represents one change log entry
type ChangeDTO struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	From string    `json:"from,omitempty"`
	To   string    `json:"to,omitempty"`
	Time time.Time `json:"time"`
}

// FromDefinition converts a definition to a DTO.
func FromDefinition(def *writingsystem.Definition) DefinitionDTO {
	dto := DefinitionDTO{
		ID:              def.ID(),
		StoreID:         def.StoreID(),
		Language:        def.Language(),
		Script:          def.Script(),
		Region:          def.Region(),
		Variant:         def.Variant(),
		Label:           def.DisplayLabel(),
		Description:     def.VerboseDescription(),
		Abbreviation:    def.Abbreviation(),
		LanguageName:    def.LanguageName(),
		Keyboard:        def.Keyboard(),
		DefaultFontName: def.DefaultFontName(),
		DefaultFontSize: def.DefaultFontSize(),
		RightToLeft:     def.RightToLeftScript(),
		IsVoice:         def.IsVoice(),
		Ipa:             def.IpaStatus().String(),
		SortUsing:       def.SortUsing().String(),
		SpellCheckingID: def.SpellCheckingID(),
		Modified:        def.Modified(),
	}
	if t := def.DateModified(); !t.IsZero() {
		dto.DateModified = &t
	}
	return dto
}

// FromDefinitions converts a slice of definitions, preserving order.
func FromDefinitions(defs []*writingsystem.Definition) []DefinitionDTO {
	out := make([]DefinitionDTO, 0, len(defs))
	for _, d := range defs {
		out = append(out, FromDefinition(d))
	}
	return out
}

// FromProblems converts repository problems.
func FromProblems(problems []repository.Problem) []ProblemDTO {
	out := make([]ProblemDTO, 0, len(problems))
	for _, p := range problems {
		dto := ProblemDTO{File: p.FilePath, Consequence: p.Consequence.String()}
		if p.Err != nil {
			dto.Error = p.Err.Error()
		}
		out = append(out, dto)
	}
	return out
}

// FromChanges converts change log entries.
func FromChanges(entries []changelog.Entry) []ChangeDTO {
	out := make([]ChangeDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, ChangeDTO{ID: e.ID, Type: string(e.Type), From: e.From, To: e.To, Time: e.Time})
	}
	return out
}
