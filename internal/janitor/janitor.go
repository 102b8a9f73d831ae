package janitor

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/recipe-catalog/internal/model"
)

// RecipeFinder resolves a recipe id; a nil result means the recipe is
// gone.
type RecipeFinder interface {
	FindByID(ctx context.Context, id string) (*model.Recipe, error)
}

// Janitor removes uploaded images whose recipe no longer exists.
// Deleting a recipe does not touch its stored image at request time,
// so the uploads directory accumulates orphans.
type Janitor struct {
	dir     string
	recipes RecipeFinder
	cron    *cron.Cron
}

func New(dir string, recipes RecipeFinder) *Janitor {
	return &Janitor{dir: dir, recipes: recipes, cron: cron.New()}
}

// Start schedules recurring sweeps; schedule is a cron expression.
func (j *Janitor) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, func() {
		if err := j.Sweep(context.Background()); err != nil {
			log.Printf("janitor sweep error: %v", err)
		}
	}); err != nil {
		return err
	}

	j.cron.Start()
	return nil
}

func (j *Janitor) Stop() {
	j.cron.Stop()
}

// Sweep walks the uploads directory once and removes files whose name
// stem does not resolve to a stored recipe. Files not keyed by a
// recipe identifier are left alone.
func (j *Janitor) Sweep(ctx context.Context) error {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		id := strings.TrimSuffix(name, filepath.Ext(name))
		if uuid.Validate(id) != nil {
			continue
		}

		recipe, err := j.recipes.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if recipe != nil {
			continue
		}

		if err := os.Remove(filepath.Join(j.dir, name)); err != nil {
			log.Printf("janitor: failed to remove %s: %v", name, err)
			continue
		}
		log.Printf("janitor: removed orphaned image %s", name)
	}

	return nil
}
