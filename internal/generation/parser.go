package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pageza/recipebox/backend/internal/apperror"
)

type rejectionPayload struct {
	Error        string   `json:"error"`
	NonFoodItems []string `json:"nonFoodItems"`
}

type macrosPayload struct {
	Calories     float64 `json:"calories"`
	ProteinGrams float64 `json:"proteinGrams"`
	CarbsGrams   float64 `json:"carbsGrams"`
	FatGrams     float64 `json:"fatGrams"`
}

type recipePayload struct {
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Ingredients      ingredientList `json:"ingredients"`
	Instructions     textOrLines    `json:"instructions"`
	TotalTimeMinutes minutes        `json:"totalTimeMinutes"`
	Macros           *macrosPayload `json:"macros"`
	Difficulty       string         `json:"difficulty"`
	Servings         servingsText   `json:"servings"`
	Tags             []string       `json:"tags"`
}

// ParseResponse turns raw model output into a draft. Code fences are removed
// first; a rejection payload or undecodable output is a generation failure.
func ParseResponse(raw string) (*RecipeDraft, error) {
	content := StripFences(raw)
	if content == "" {
		return nil, apperror.Generation("empty response from recipe model", nil)
	}

	if strings.Contains(content, `"error"`) {
		var rejection rejectionPayload
		if err := json.Unmarshal([]byte(content), &rejection); err == nil && rejection.Error != "" {
			return nil, apperror.Generation(rejectionMessage(rejection), nil)
		}
	}

	var payload recipePayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, apperror.Generation("failed to parse recipe from model response", err)
	}

	draft := &RecipeDraft{
		Title:              strings.TrimSpace(payload.Title),
		Description:        strings.TrimSpace(payload.Description),
		Ingredients:        []string(payload.Ingredients),
		Instructions:       string(payload.Instructions),
		TotalTimeMinutes:   int(payload.TotalTimeMinutes),
		ServingSuggestions: string(payload.Servings),
		Tags:               payload.Tags,
		AIGenerated:        true,
	}
	if d, ok := ParseDifficulty(payload.Difficulty); ok {
		draft.Difficulty = d
	}
	if payload.Macros != nil {
		draft.Macros = &Macros{
			Calories:     payload.Macros.Calories,
			ProteinGrams: payload.Macros.ProteinGrams,
			CarbsGrams:   payload.Macros.CarbsGrams,
			FatGrams:     payload.Macros.FatGrams,
		}
	}

	return draft, nil
}

// StripFences removes a leading ```json or ``` fence and a trailing ```
// fence, trimming whitespace after each removal
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	case strings.HasPrefix(s, "```"):
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

func rejectionMessage(r rejectionPayload) string {
	items := make([]string, 0, len(r.NonFoodItems))
	for _, item := range r.NonFoodItems {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return r.Error
	}
	return fmt.Sprintf("%s: %s", r.Error, strings.Join(items, ", "))
}

// textOrLines accepts a string or an array of strings
type textOrLines string

func (t *textOrLines) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*t = textOrLines(strings.TrimSpace(str))
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*t = textOrLines(strings.Join(lines, "\n"))
		return nil
	}

	return fmt.Errorf("invalid instructions format")
}

// servingsText accepts a number or a string
type servingsText string

func (s *servingsText) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*s = servingsText(fmt.Sprintf("Serves %d", int(num)))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = servingsText(strings.TrimSpace(str))
		return nil
	}

	return fmt.Errorf("invalid servings format")
}

// minutes accepts a number or a numeric string. Anything else is treated
// as missing so the normalizer can fill it in.
type minutes int

func (m *minutes) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*m = minutes(int(num))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		fields := strings.Fields(str)
		if len(fields) > 0 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				*m = minutes(n)
				return nil
			}
		}
	}

	*m = 0
	return nil
}

// ingredientList accepts plain strings or objects with name, quantity and
// unit fields
type ingredientList []string

func (l *ingredientList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		if bytes.Equal(data, []byte("null")) {
			*l = nil
			return nil
		}
		return fmt.Errorf("invalid ingredients format: %w", err)
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			if str = strings.TrimSpace(str); str != "" {
				out = append(out, str)
			}
			continue
		}

		var obj struct {
			Name     string `json:"name"`
			Quantity any    `json:"quantity"`
			Amount   string `json:"amount"`
			Unit     string `json:"unit"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("invalid ingredient entry: %w", err)
		}
		parts := make([]string, 0, 4)
		for _, p := range []string{quantityText(obj.Quantity), obj.Amount, obj.Unit, obj.Name} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			out = append(out, strings.Join(parts, " "))
		}
	}

	*l = out
	return nil
}

func quantityText(q any) string {
	switch v := q.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	}
	return ""
}
