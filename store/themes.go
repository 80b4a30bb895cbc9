package store

import (
	"context"
	"strings"

	"github.com/andrewpaige1/lego-catalog/models"
)

// AllThemes returns every theme ordered by name.
func (s *Store) AllThemes(ctx context.Context) ([]models.Theme, error) {
	var themes []models.Theme
	if err := s.db.WithContext(ctx).Order("name").Find(&themes).Error; err != nil {
		return nil, wrap("retrieve themes", err)
	}
	return themes, nil
}

// AddTheme inserts a theme and returns it with the assigned id.
func (s *Store) AddTheme(ctx context.Context, name string) (models.Theme, error) {
	const op = "add theme"
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Theme{}, constraint(op, "name is required")
	}

	theme := models.Theme{Name: name}
	if err := s.db.WithContext(ctx).Create(&theme).Error; err != nil {
		return models.Theme{}, wrap(op, err)
	}
	return theme, nil
}
