package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONBStringArray: %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// EmbeddingDimensions is the width of the recipe search embedding
const EmbeddingDimensions = 3

type Recipe struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt          time.Time `gorm:"index"`
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt   `gorm:"index"`
	Title              string           `gorm:"size:255;not null"`
	Description        string           `gorm:"type:text"`
	Ingredients        JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'"`
	Instructions       string           `gorm:"type:text;not null"`
	TotalTimeMinutes   int              `gorm:"not null"`
	Macros             Macros           `gorm:"embedded;embeddedPrefix:macros_"`
	Difficulty         string           `gorm:"size:10;not null;index"`
	ServingSuggestions string           `gorm:"type:text"`
	Tags               JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'"`
	ImageURL           string           `gorm:"size:1024"`
	AIGenerated        bool             `gorm:"not null;default:false"`
	AuthorID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	Embedding          pgvector.Vector  `gorm:"type:vector(3)"`
}

// BeforeCreate assigns an id so inserts work on databases without
// gen_random_uuid()
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
