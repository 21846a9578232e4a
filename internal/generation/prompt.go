package generation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SystemPrompt sets the model's role for every generation request
const SystemPrompt = "You are a professional chef and nutritionist. You create practical home recipes " +
	"and answer with a single JSON object and nothing else."

// NewUniquenessToken returns a short random token that keeps repeated
// requests for the same ingredients from producing identical recipes
func NewUniquenessToken() string {
	return uuid.NewString()[:8]
}

// BuildPrompt renders the user prompt for the cleaned ingredient list
func BuildPrompt(ingredients []string, token string) string {
	var b strings.Builder

	b.WriteString("Create one original recipe using the ingredients below.\n\n")
	b.WriteString("Ingredients:\n")
	if len(ingredients) == 0 {
		b.WriteString("(no ingredients were provided)\n")
	}
	for _, item := range ingredients {
		fmt.Fprintf(&b, "- %s\n", item)
	}

	fmt.Fprintf(&b, "\nRequest ID: %s. Make this recipe different from any earlier answer.\n\n", token)

	b.WriteString("Rules:\n")
	b.WriteString("- Only reject the request if an ingredient is obviously not food (for example \"car\" or \"shampoo\"). ")
	b.WriteString("Unusual, regional or misspelled foods are fine.\n")
	b.WriteString("- You may add common pantry staples such as salt, pepper, oil and water.\n")
	b.WriteString("- Always include \"difficulty\" (one of EASY, MEDIUM, HARD) and \"totalTimeMinutes\" (a positive integer).\n")
	b.WriteString("- Macros are per serving.\n\n")

	b.WriteString("Respond with JSON in exactly this shape:\n")
	b.WriteString(`{
  "title": "string",
  "description": "string",
  "ingredients": ["quantity and ingredient"],
  "instructions": "numbered steps separated by newlines",
  "totalTimeMinutes": 30,
  "macros": {"calories": 0, "proteinGrams": 0, "carbsGrams": 0, "fatGrams": 0},
  "difficulty": "EASY | MEDIUM | HARD",
  "servings": "serving suggestion",
  "tags": ["string"]
}`)
	b.WriteString("\n\nIf you must reject the request, respond instead with:\n")
	b.WriteString(`{"error": "not food", "nonFoodItems": ["item"]}`)
	b.WriteString("\n")

	return b.String()
}
