package storage

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/recipe-catalog/internal/model"
)

func newRecipeRepoWithMock(t *testing.T) (*RecipeRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	wrapped := &Database{DB: sqlx.NewDb(db, "sqlmock")}
	return NewRecipeRepository(wrapped), mock, db
}

func recipeColumns() []string {
	return []string{"id", "name", "ingredients", "preparation", "image", "user_id", "created_at", "updated_at"}
}

func TestRecipeCreate_Success(t *testing.T) {
	repo, mock, db := newRecipeRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(recipeColumns()).
		AddRow("r-1", "Stew", "beef", "simmer", nil, "u-1", time.Now(), time.Now())
	mock.ExpectQuery(`INSERT\s+INTO\s+recipes\s*\(name,\s*ingredients,\s*preparation,\s*user_id\)`).
		WithArgs("Stew", "beef", "simmer", "u-1").
		WillReturnRows(rows)

	req := &model.RecipeRequest{Name: "Stew", Ingredients: "beef", Preparation: "simmer"}
	got, err := repo.Create(context.Background(), req, "u-1")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.UserID != "u-1" || got.Image != nil {
		t.Fatalf("unexpected recipe: %+v", got)
	}
}

func TestRecipeFindAll(t *testing.T) {
	repo, mock, db := newRecipeRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(recipeColumns()).
		AddRow("r-1", "Stew", "beef", "simmer", nil, "u-1", time.Now(), time.Now()).
		AddRow("r-2", "Soup", "leek", "boil", "host/uploads/r-2.jpeg", "u-2", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT\s+.+\s+FROM recipes ORDER BY created_at DESC`).
		WillReturnRows(rows)

	got, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(got))
	}
	if got[1].Image == nil || !strings.HasSuffix(*got[1].Image, "r-2.jpeg") {
		t.Fatalf("unexpected image: %+v", got[1].Image)
	}
}

func TestRecipeFindByID_Absent(t *testing.T) {
	repo, mock, db := newRecipeRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.+\s+FROM recipes WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByID(context.Background(), "missing")
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", got, err)
	}
}

func TestRecipeUpdate_Success(t *testing.T) {
	repo, mock, db := newRecipeRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(recipeColumns()).
		AddRow("r-1", "Rich stew", "beef, wine", "simmer longer", nil, "u-1", time.Now(), time.Now())
	mock.ExpectQuery(`UPDATE recipes SET name = \$1, ingredients = \$2, preparation = \$3, updated_at = \$4`).
		WithArgs("Rich stew", "beef, wine", "simmer longer", sqlmock.AnyArg(), "r-1").
		WillReturnRows(rows)

	req := &model.RecipeRequest{Name: "Rich stew", Ingredients: "beef, wine", Preparation: "simmer longer"}
	got, err := repo.Update(context.Background(), "r-1", req)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Name != "Rich stew" {
		t.Fatalf("unexpected recipe: %+v", got)
	}
}

func TestRecipeUpdate_Absent(t *testing.T) {
	repo, mock, db := newRecipeRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE recipes SET name = \$1`).
		WillReturnError(sql.ErrNoRows)

	req := &model.RecipeRequest{Name: "x", Ingredients: "y", Preparation: "z"}
	got, err := repo.Update(context.Background(), "missing", req)
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", got, err)
	}
}

func TestRecipeDelete_Success(t *testing.T) {
	repo, mock, db := newRecipeRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM recipes WHERE id = \$1`).
		WithArgs("r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "r-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestRecipeDelete_Absent(t *testing.T) {
	repo, mock, db := newRecipeRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM recipes WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for absent recipe, got nil")
	}
}

func TestRecipeSetImage(t *testing.T) {
	repo, mock, db := newRecipeRepoWithMock(t)
	defer db.Close()

	image := "host/uploads/r-1.jpeg"
	rows := sqlmock.NewRows(recipeColumns()).
		AddRow("r-1", "Stew", "beef", "simmer", image, "u-1", time.Now(), time.Now())
	mock.ExpectQuery(`UPDATE recipes SET image = \$1, updated_at = \$2`).
		WithArgs(image, sqlmock.AnyArg(), "r-1").
		WillReturnRows(rows)

	got, err := repo.SetImage(context.Background(), "r-1", image)
	if err != nil {
		t.Fatalf("SetImage error: %v", err)
	}
	if got.Image == nil || *got.Image != image {
		t.Fatalf("unexpected image: %+v", got.Image)
	}
}
