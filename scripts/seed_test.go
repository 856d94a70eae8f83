package main

import (
	"context"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/pkg/database"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite"}, "test")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	fx, err := loadFixtures("seed.yaml")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, newSeeder(db).run(ctx, fx))
	require.NoError(t, newSeeder(db).run(ctx, fx))

	var users, units, enrollments, perfs int64
	db.Model(&model.User{}).Count(&users)
	db.Model(&model.Unit{}).Count(&units)
	db.Model(&model.Enrollment{}).Count(&enrollments)
	db.Model(&model.Performance{}).Count(&perfs)

	assert.Equal(t, int64(len(fx.Teachers)+len(fx.Students)), users)
	assert.Equal(t, int64(len(fx.Units)), units)
	assert.Equal(t, int64(len(fx.Enrollments)), enrollments)
	assert.Equal(t, int64(2), perfs)

	var perf model.Performance
	require.NoError(t, db.Joins("JOIN users ON users.id = performances.user_id").
		Where("users.email = ?", "alice@example.com").First(&perf).Error)
	assert.InDelta(t, 74.0, perf.Score, 1e-9)
}
