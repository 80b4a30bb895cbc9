package store

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewpaige1/lego-catalog/models"
)

var (
	setNumColumn  = clause.Column{Table: clause.CurrentTable, Name: "set_num"}
	bySetNum      = clause.OrderByColumn{Column: setNumColumn}
	themeNameJoin = clause.Column{Table: "Theme", Name: "name"} // alias gorm gives the joined association
)

// sets starts a query over sets with the theme attached by a left join.
func (s *Store) sets(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Joins("Theme")
}

// AllSets returns every set with its theme, ordered by set number.
func (s *Store) AllSets(ctx context.Context) ([]models.Set, error) {
	var sets []models.Set
	if err := s.sets(ctx).Order(bySetNum).Find(&sets).Error; err != nil {
		return nil, wrap("retrieve sets", err)
	}
	return sets, nil
}

// SetByNum returns the set with the given number.
func (s *Store) SetByNum(ctx context.Context, setNum string) (models.Set, error) {
	var set models.Set
	err := s.sets(ctx).Where(clause.Eq{Column: setNumColumn, Value: setNum}).Take(&set).Error
	if err != nil {
		if e := wrap("retrieve set", err); e.Kind != KindNotFound {
			return models.Set{}, e
		}
		return models.Set{}, notFound("retrieve set", "set %s not found", setNum)
	}
	return set, nil
}

// SetsByTheme returns the sets whose theme name contains term, ignoring
// case. Finding nothing is reported as a not-found error.
func (s *Store) SetsByTheme(ctx context.Context, term string) ([]models.Set, error) {
	// both sides are folded by the database so non-ASCII names compare alike
	pattern := "%" + escapeLike(term) + "%"

	var sets []models.Set
	err := s.sets(ctx).
		Where(`LOWER(?) LIKE LOWER(?) ESCAPE '\'`, themeNameJoin, pattern).
		Order(bySetNum).
		Find(&sets).Error
	if err != nil {
		return nil, wrap("retrieve sets", err)
	}
	if len(sets) == 0 {
		return nil, notFound("retrieve sets", "no sets found for theme: %s", term)
	}
	return sets, nil
}

// AddSet inserts a new set. The set number is stored exactly as given. The
// theme association on set is ignored, only ThemeID is stored.
func (s *Store) AddSet(ctx context.Context, set models.Set) error {
	const op = "add set"
	if strings.TrimSpace(set.SetNum) == "" {
		return constraint(op, "set number is required")
	}
	if err := checkSetFields(op, set); err != nil {
		return err
	}
	set.Theme = nil

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&set).Error; err != nil {
		e := wrap(op, err)
		if e.Kind == KindConstraint && e.Msg == "a record with this key already exists" {
			e.Msg = "set " + set.SetNum + " already exists"
		}
		return e
	}
	return nil
}

// EditSet replaces every column of the set except its number. Columns left
// nil in set are cleared. A missing set is reported as not found even when
// the new values are invalid.
func (s *Store) EditSet(ctx context.Context, setNum string, set models.Set) error {
	const op = "update set"
	if invalid := checkSetFields(op, set); invalid != nil {
		var n int64
		err := s.db.WithContext(ctx).Model(&models.Set{}).
			Where(clause.Eq{Column: setNumColumn, Value: setNum}).
			Count(&n).Error
		if err != nil {
			return wrap(op, err)
		}
		if n == 0 {
			return notFound(op, "set %s not found", setNum)
		}
		return invalid
	}

	res := s.db.WithContext(ctx).Model(&models.Set{}).
		Where(clause.Eq{Column: setNumColumn, Value: setNum}).
		Updates(map[string]interface{}{
			"name":      set.Name,
			"year":      set.Year,
			"num_parts": set.NumParts,
			"theme_id":  set.ThemeID,
			"img_url":   set.ImgURL,
		})
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(op, "set %s not found", setNum)
	}
	return nil
}

// DeleteSet removes the set with the given number.
func (s *Store) DeleteSet(ctx context.Context, setNum string) error {
	const op = "delete set"
	res := s.db.WithContext(ctx).Where(clause.Eq{Column: setNumColumn, Value: setNum}).Delete(&models.Set{})
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(op, "set %s not found", setNum)
	}
	return nil
}

func checkSetFields(op string, set models.Set) *Error {
	switch {
	case strings.TrimSpace(set.Name) == "":
		return constraint(op, "name is required")
	case set.Year != nil && *set.Year < 0:
		return constraint(op, "year cannot be negative")
	case set.NumParts != nil && *set.NumParts < 0:
		return constraint(op, "number of parts cannot be negative")
	}
	return nil
}

// escapeLike makes %, _ and \ in a user supplied term match literally.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
