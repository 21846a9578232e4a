package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/types"
)

// RecipeRepository stores recipes
type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *RecipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (r *RecipeRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update writes every column of the recipe
func (r *RecipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	result := r.db.WithContext(ctx).Model(recipe).Select("*").Omit("id", "created_at", "deleted_at").Updates(recipe)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft-deletes the recipe together with its comments and removes its
// favorites and votes
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Recipe{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.FavoriteRecipe{}).Error; err != nil {
			return err
		}
		return tx.Where("recipe_id = ?", id).Delete(&model.RecipeVote{}).Error
	})
}

// likeEscaper makes user text match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// List returns a page of recipes matching the filter. On PostgreSQL a text
// query is ranked by embedding distance, elsewhere by recency.
func (r *RecipeRepository) List(ctx context.Context, filter types.RecipeFilter, queryVector pgvector.Vector) ([]model.Recipe, int64, error) {
	filter.Normalize()

	query := r.db.WithContext(ctx).Model(&model.Recipe{})

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
		query = query.Where(
			`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(CAST(ingredients AS TEXT)) LIKE ? ESCAPE '\'`,
			like, like, like,
		)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", strings.ToUpper(filter.Difficulty))
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Query != "" && isPostgres(r.db) && len(queryVector.Slice()) > 0 {
		query = query.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{queryVector}},
		})
	}
	query = query.Order("created_at DESC")

	var recipes []model.Recipe
	if err := query.Offset(filter.Offset()).Limit(filter.PageSize).Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}
