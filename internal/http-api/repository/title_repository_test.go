package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder collects every statement gorm builds, so query shapes can be
// asserted without a live database.
type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface          { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})      {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})      {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

func dryRunDB(t *testing.T, rec *sqlRecorder) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test"}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	require.NoError(t, err)
	return db
}

// The count narrows its select to the id column; the find that follows on
// the same filter chain must still fetch whole rows, or every listed title
// comes back with only its id populated.
func TestListTitles_CountDoesNotNarrowTheFind(t *testing.T) {
	rec := &sqlRecorder{}
	repo := NewTitleRepository(dryRunDB(t, rec))

	_, _, err := repo.List(context.Background(), TitleFilter{Name: "am", Year: 2001}, 2, 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rec.statements), 2)

	countSQL := strings.ToUpper(rec.statements[0])
	findSQL := rec.statements[1]

	assert.Contains(t, countSQL, "COUNT")
	assert.Contains(t, countSQL, strings.ToUpper("titles.id"))

	assert.NotContains(t, strings.ToUpper(findSQL), "COUNT")
	assert.NotContains(t, findSQL, "titles.id")
	assert.Contains(t, findSQL, "ILIKE")
	assert.Contains(t, findSQL, "ORDER BY titles.name")
}

func TestListTitles_FiltersCombine(t *testing.T) {
	rec := &sqlRecorder{}
	repo := NewTitleRepository(dryRunDB(t, rec))

	_, _, err := repo.List(context.Background(), TitleFilter{
		Name:         "am",
		Year:         2001,
		CategorySlug: "movies",
		GenreSlug:    "drama",
	}, 1, 20)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rec.statements), 2)

	findSQL := rec.statements[1]
	assert.Contains(t, findSQL, "titles.name ILIKE")
	assert.Contains(t, findSQL, "titles.year =")
	assert.Contains(t, findSQL, "categories.slug =")
	assert.Contains(t, findSQL, "genres.slug =")
	assert.Contains(t, findSQL, "JOIN title_genres")
}

func TestListTitles_NoFiltersMeansNoJoins(t *testing.T) {
	rec := &sqlRecorder{}
	repo := NewTitleRepository(dryRunDB(t, rec))

	_, _, err := repo.List(context.Background(), TitleFilter{}, 1, 20)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rec.statements), 2)

	findSQL := rec.statements[1]
	assert.NotContains(t, findSQL, "JOIN")
	assert.Contains(t, findSQL, "LIMIT")
}
