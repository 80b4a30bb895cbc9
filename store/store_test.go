package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/andrewpaige1/lego-catalog/config"
	"github.com/andrewpaige1/lego-catalog/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(sqlite.Open(filepath.Join(t.TempDir(), "lego.db")), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func intPtr(v int) *int       { return &v }
func uintPtr(v uint) *uint    { return &v }
func strPtr(v string) *string { return &v }

func TestOpen_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "open.db")}
	s, err := Open(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.EnsureSchema(context.Background()))
}

func TestStore_EnsureSchemaIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddTheme(ctx, "City")
	require.NoError(t, err)

	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.EnsureSchema(ctx))

	themes, err := s.AllThemes(ctx)
	require.NoError(t, err)
	assert.Len(t, themes, 1)
	assert.True(t, s.db.Migrator().HasTable(&models.Set{}))
	assert.True(t, s.db.Migrator().HasTable(&models.Theme{}))
}

func TestStore_AddAndGetSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	theme, err := s.AddTheme(ctx, "Star Wars")
	require.NoError(t, err)
	assert.NotZero(t, theme.ID)

	in := models.Set{
		SetNum:   "75192",
		Name:     "Millennium Falcon",
		Year:     intPtr(2017),
		NumParts: intPtr(7541),
		ThemeID:  uintPtr(theme.ID),
		ImgURL:   strPtr("https://cdn.example/75192.jpg"),
	}
	require.NoError(t, s.AddSet(ctx, in))

	got, err := s.SetByNum(ctx, "75192")
	require.NoError(t, err)
	assert.Equal(t, in.SetNum, got.SetNum)
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, in.Year, got.Year)
	assert.Equal(t, in.NumParts, got.NumParts)
	assert.Equal(t, in.ThemeID, got.ThemeID)
	assert.Equal(t, in.ImgURL, got.ImgURL)
	require.NotNil(t, got.Theme)
	assert.Equal(t, "Star Wars", got.Theme.Name)
	assert.Equal(t, "Star Wars", got.ThemeName())
}

func TestStore_AddSetWithoutTheme(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "10497", Name: "Galaxy Explorer"}))

	got, err := s.SetByNum(ctx, "10497")
	require.NoError(t, err)
	assert.Nil(t, got.Theme)
	assert.Nil(t, got.Year)
	assert.Nil(t, got.ImgURL)
	assert.Empty(t, got.ThemeName())

	// a dangling theme reference is accepted and reads back without a theme
	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "6929", Name: "Starfleet Voyager", ThemeID: uintPtr(999)}))
	got, err = s.SetByNum(ctx, "6929")
	require.NoError(t, err)
	assert.Equal(t, uintPtr(999), got.ThemeID)
	assert.Nil(t, got.Theme)
}

func TestStore_AddSetConstraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "75192", Name: "Millennium Falcon", Year: intPtr(2017)}))

	tests := []struct {
		name string
		set  models.Set
		msg  string
	}{
		{"duplicate key", models.Set{SetNum: "75192", Name: "Imposter", Year: intPtr(1999)}, "failed to add set: set 75192 already exists"},
		{"missing set number", models.Set{SetNum: "  ", Name: "Nameless"}, "failed to add set: set number is required"},
		{"missing name", models.Set{SetNum: "1"}, "failed to add set: name is required"},
		{"negative parts", models.Set{SetNum: "2", Name: "Odd", NumParts: intPtr(-1)}, "failed to add set: number of parts cannot be negative"},
		{"negative year", models.Set{SetNum: "3", Name: "Old", Year: intPtr(-5)}, "failed to add set: year cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.AddSet(ctx, tt.set)
			require.Error(t, err)
			assert.Equal(t, KindConstraint, KindOf(err))
			assert.EqualError(t, err, tt.msg)
		})
	}

	// the existing row is untouched by the rejected duplicate
	got, err := s.SetByNum(ctx, "75192")
	require.NoError(t, err)
	assert.Equal(t, "Millennium Falcon", got.Name)
	assert.Equal(t, intPtr(2017), got.Year)

	all, err := s.AllSets(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_AddSetKeepsSetNum(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: " 42 ", Name: "Padded"}))

	got, err := s.SetByNum(ctx, " 42 ")
	require.NoError(t, err)
	assert.Equal(t, " 42 ", got.SetNum)
	assert.Equal(t, "Padded", got.Name)

	require.NoError(t, s.EditSet(ctx, " 42 ", models.Set{Name: "Still padded"}))
	require.NoError(t, s.DeleteSet(ctx, " 42 "))
}

func TestStore_SetByNumNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SetByNum(context.Background(), "0000")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "failed to retrieve set: set 0000 not found")
}

func TestStore_SetsByTheme(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	starWars, err := s.AddTheme(ctx, "Star Wars")
	require.NoError(t, err)
	starship, err := s.AddTheme(ctx, "STARSHIP")
	require.NoError(t, err)
	city, err := s.AddTheme(ctx, "City")
	require.NoError(t, err)
	percent, err := s.AddTheme(ctx, "100% Bricks")
	require.NoError(t, err)
	saga, err := s.AddTheme(ctx, "Ævintýri")
	require.NoError(t, err)

	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "75192", Name: "Millennium Falcon", ThemeID: uintPtr(starWars.ID)}))
	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "6980", Name: "Galaxy Commander", ThemeID: uintPtr(starship.ID)}))
	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "60215", Name: "Fire Station", ThemeID: uintPtr(city.ID)}))
	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "1000", Name: "Bucket", ThemeID: uintPtr(percent.ID)}))
	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "9999", Name: "Loose Bricks"}))
	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "2001", Name: "Longship", ThemeID: uintPtr(saga.ID)}))

	t.Run("substring ignoring case", func(t *testing.T) {
		sets, err := s.SetsByTheme(ctx, "star")
		require.NoError(t, err)
		require.Len(t, sets, 2)
		assert.Equal(t, "6980", sets[0].SetNum)
		assert.Equal(t, "STARSHIP", sets[0].ThemeName())
		assert.Equal(t, "75192", sets[1].SetNum)
		assert.Equal(t, "Star Wars", sets[1].ThemeName())
	})

	t.Run("upper case term", func(t *testing.T) {
		sets, err := s.SetsByTheme(ctx, "CIT")
		require.NoError(t, err)
		require.Len(t, sets, 1)
		assert.Equal(t, "60215", sets[0].SetNum)
	})

	t.Run("non-ascii theme", func(t *testing.T) {
		for _, term := range []string{"Ævintýri", "ÆVINtýri", "týri"} {
			sets, err := s.SetsByTheme(ctx, term)
			require.NoError(t, err, term)
			require.Len(t, sets, 1, term)
			assert.Equal(t, "2001", sets[0].SetNum)
			assert.Equal(t, "Ævintýri", sets[0].ThemeName())
		}
	})

	t.Run("wildcards match literally", func(t *testing.T) {
		sets, err := s.SetsByTheme(ctx, "0%")
		require.NoError(t, err)
		require.Len(t, sets, 1)
		assert.Equal(t, "1000", sets[0].SetNum)

		_, err = s.SetsByTheme(ctx, "_ity")
		assert.True(t, IsNotFound(err))
	})

	t.Run("no match", func(t *testing.T) {
		_, err := s.SetsByTheme(ctx, "technic")
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.EqualError(t, err, "failed to retrieve sets: no sets found for theme: technic")
	})
}

func TestStore_EditSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	theme, err := s.AddTheme(ctx, "Creator Expert")
	require.NoError(t, err)
	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "10255", Name: "Assembly Square", Year: intPtr(2017),
		ImgURL: strPtr("https://cdn.example/old.jpg")}))

	err = s.EditSet(ctx, "10255", models.Set{SetNum: "ignored", Name: "Assembly Square (Modular)",
		NumParts: intPtr(4002), ThemeID: uintPtr(theme.ID)})
	require.NoError(t, err)

	got, err := s.SetByNum(ctx, "10255")
	require.NoError(t, err)
	assert.Equal(t, "10255", got.SetNum)
	assert.Equal(t, "Assembly Square (Modular)", got.Name)
	assert.Equal(t, intPtr(4002), got.NumParts)
	assert.Nil(t, got.Year, "fields omitted from the replacement are cleared")
	assert.Nil(t, got.ImgURL)
	require.NotNil(t, got.Theme)
	assert.Equal(t, "Creator Expert", got.Theme.Name)

	_, err = s.SetByNum(ctx, "ignored")
	assert.True(t, IsNotFound(err), "set number is never reassigned")

	t.Run("missing set", func(t *testing.T) {
		err := s.EditSet(ctx, "nope", models.Set{Name: "Ghost"})
		require.Error(t, err)
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.EqualError(t, err, "failed to update set: set nope not found")

		all, err := s.AllSets(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Assembly Square (Modular)", all[0].Name)
	})

	t.Run("missing name", func(t *testing.T) {
		err := s.EditSet(ctx, "10255", models.Set{})
		assert.Equal(t, KindConstraint, KindOf(err))
	})

	t.Run("missing set with invalid values", func(t *testing.T) {
		err := s.EditSet(ctx, "nope", models.Set{})
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.EqualError(t, err, "failed to update set: set nope not found")
	})
}

func TestStore_DeleteSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "21318", Name: "Tree House"}))
	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "21319", Name: "Central Perk"}))

	require.NoError(t, s.DeleteSet(ctx, "21318"))

	all, err := s.AllSets(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "21319", all[0].SetNum)

	err = s.DeleteSet(ctx, "21318")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "failed to delete set: set 21318 not found")
}

func TestStore_AllSetsCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	added, deleted := 0, 0
	for _, num := range []string{"1", "2", "3", "4", "2"} {
		if err := s.AddSet(ctx, models.Set{SetNum: num, Name: "Set " + num}); err == nil {
			added++
		}
	}
	for _, num := range []string{"3", "3", "9"} {
		if err := s.DeleteSet(ctx, num); err == nil {
			deleted++
		}
	}

	all, err := s.AllSets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, added)
	assert.Equal(t, 1, deleted)
	assert.Len(t, all, added-deleted)
	assert.Equal(t, []string{"1", "2", "4"}, []string{all[0].SetNum, all[1].SetNum, all[2].SetNum})
}

func TestStore_AllThemes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	themes, err := s.AllThemes(ctx)
	require.NoError(t, err)
	assert.Empty(t, themes)

	for _, name := range []string{"Technic", "City", "Star Wars"} {
		_, err := s.AddTheme(ctx, name)
		require.NoError(t, err)
	}
	_, err = s.AddTheme(ctx, " ")
	assert.Equal(t, KindConstraint, KindOf(err))

	themes, err = s.AllThemes(ctx)
	require.NoError(t, err)
	require.Len(t, themes, 3)
	assert.Equal(t, "City", themes[0].Name)
	assert.Equal(t, "Technic", themes[2].Name)
	assert.Less(t, themes[2].ID, themes[0].ID, "ids are assigned in insertion order")
}

func TestStore_ClosedConnection(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.AllSets(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindUnavailable, KindOf(err))
	assert.Contains(t, err.Error(), "failed to retrieve sets")
}

func TestStore_StarWarsScenario(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	theme, err := s.AddTheme(ctx, "Star Wars")
	require.NoError(t, err)
	require.NoError(t, s.AddSet(ctx, models.Set{SetNum: "75192", Name: "Millennium Falcon", ThemeID: &theme.ID}))

	got, err := s.SetByNum(ctx, "75192")
	require.NoError(t, err)
	require.NotNil(t, got.Theme)
	assert.Equal(t, "Star Wars", got.Theme.Name)
}
