package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/recipe-catalog/internal/model"
)

type RecipeRepository struct {
	db *Database
}

func NewRecipeRepository(db *Database) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) Create(ctx context.Context, req *model.RecipeRequest, userID string) (*model.Recipe, error) {
	var recipe model.Recipe
	query := `
		INSERT INTO recipes (name, ingredients, preparation, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, ingredients, preparation, image, user_id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, req.Name, req.Ingredients, req.Preparation, userID).
		StructScan(&recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	return &recipe, nil
}

func (r *RecipeRepository) FindAll(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	query := `
		SELECT id, name, ingredients, preparation, image, user_id, created_at, updated_at
		FROM recipes ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &recipes, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipes: %w", err)
	}

	return recipes, nil
}

func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	query := `
		SELECT id, name, ingredients, preparation, image, user_id, created_at, updated_at
		FROM recipes WHERE id = $1
	`
	err := r.db.GetContext(ctx, &recipe, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	return &recipe, nil
}

// Update replaces the mutable fields. The owner reference is immutable
// and never part of the update.
func (r *RecipeRepository) Update(ctx context.Context, id string, req *model.RecipeRequest) (*model.Recipe, error) {
	var recipe model.Recipe
	query := `
		UPDATE recipes SET name = $1, ingredients = $2, preparation = $3, updated_at = $4
		WHERE id = $5
		RETURNING id, name, ingredients, preparation, image, user_id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, req.Name, req.Ingredients, req.Preparation, time.Now(), id).
		StructScan(&recipe)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	return &recipe, nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM recipes WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("recipe not found")
	}

	return nil
}

func (r *RecipeRepository) SetImage(ctx context.Context, id, image string) (*model.Recipe, error) {
	var recipe model.Recipe
	query := `
		UPDATE recipes SET image = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, name, ingredients, preparation, image, user_id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, image, time.Now(), id).
		StructScan(&recipe)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to set recipe image: %w", err)
	}

	return &recipe, nil
}
