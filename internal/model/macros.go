package model

// Macros represents per-serving nutrition stored inline on a recipe
type Macros struct {
	Calories     float64 `gorm:"type:float;not null;default:0"`
	ProteinGrams float64 `gorm:"type:float;not null;default:0"`
	CarbsGrams   float64 `gorm:"type:float;not null;default:0"`
	FatGrams     float64 `gorm:"type:float;not null;default:0"`
}
