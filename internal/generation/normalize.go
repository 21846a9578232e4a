package generation

// DefaultTotalTime estimates total minutes from the tier and ingredient count
func DefaultTotalTime(d Difficulty, ingredientCount int) int {
	switch d {
	case Easy:
		return max(15, ingredientCount*2)
	case Hard:
		return max(45, ingredientCount*5)
	default:
		return max(30, ingredientCount*3)
	}
}

// Normalize returns a copy of the draft with missing difficulty, total time
// and macros filled in. The input draft is left untouched.
func Normalize(d *RecipeDraft) *RecipeDraft {
	if d == nil {
		return nil
	}
	out := d.Clone()

	if _, ok := ParseDifficulty(string(out.Difficulty)); !ok {
		out.Difficulty = Medium
	}

	if out.TotalTimeMinutes <= 0 {
		out.TotalTimeMinutes = DefaultTotalTime(out.Difficulty, len(out.Ingredients))
	}

	if out.Macros == nil {
		out.Macros = &Macros{}
	}
	out.Macros.Calories = max(0, out.Macros.Calories)
	out.Macros.ProteinGrams = max(0, out.Macros.ProteinGrams)
	out.Macros.CarbsGrams = max(0, out.Macros.CarbsGrams)
	out.Macros.FatGrams = max(0, out.Macros.FatGrams)

	return out
}
