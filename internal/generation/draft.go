// Package generation holds the pure steps of AI recipe generation: cleaning
// the ingredient list, building the prompt, repairing and parsing the model
// reply, and filling in fields the model left out.
package generation

import (
	"strings"
)

// Difficulty is the effort tier of a recipe
type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

// ParseDifficulty reads a tier case-insensitively. Unknown values report
// false and should be treated as missing.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(strings.ToUpper(strings.TrimSpace(s))) {
	case Easy:
		return Easy, true
	case Medium:
		return Medium, true
	case Hard:
		return Hard, true
	}
	return "", false
}

// Macros holds per-serving nutrition values
type Macros struct {
	Calories     float64 `json:"calories"`
	ProteinGrams float64 `json:"proteinGrams"`
	CarbsGrams   float64 `json:"carbsGrams"`
	FatGrams     float64 `json:"fatGrams"`
}

// RecipeDraft is a recipe produced by the model before it is persisted.
// Zero TotalTimeMinutes, nil Macros and empty Difficulty mean the model
// did not supply the field.
type RecipeDraft struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Ingredients        []string   `json:"ingredients"`
	Instructions       string     `json:"instructions"`
	TotalTimeMinutes   int        `json:"totalTimeMinutes"`
	Macros             *Macros    `json:"macros,omitempty"`
	Difficulty         Difficulty `json:"difficulty"`
	ServingSuggestions string     `json:"servingSuggestions"`
	Tags               []string   `json:"tags"`
	AIGenerated        bool       `json:"aiGenerated"`
}

// Clone returns a deep copy of the draft
func (d *RecipeDraft) Clone() *RecipeDraft {
	if d == nil {
		return nil
	}
	out := *d
	out.Ingredients = append([]string(nil), d.Ingredients...)
	out.Tags = append([]string(nil), d.Tags...)
	if d.Macros != nil {
		m := *d.Macros
		out.Macros = &m
	}
	return &out
}
