package seed

import (
	"context"
	"testing"

	"socialapi/internal/auth"
	"socialapi/internal/database"
	"socialapi/internal/models"
	"socialapi/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeed(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	res, err := Seed(ctx, db, hasher, Options{
		NumUsers:  4,
		NumPosts:  10,
		VoteRatio: 0.5,
		RandSeed:  7,
	})
	require.NoError(t, err)

	assert.Len(t, res.Users, 4)
	assert.Len(t, res.Posts, 10)
	assert.Equal(t, int64(4), count(t, db, &models.User{}))
	assert.Equal(t, int64(10), count(t, db, &models.Post{}))
	assert.Equal(t, int64(res.Votes), count(t, db, &models.Vote{}))

	// Seeded users can log in with the shared password.
	stored, err := repository.NewUserRepository(db).GetByEmail(ctx, res.Users[0].Email)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, DefaultPassword, stored.Password)
	assert.True(t, hasher.Verify(DefaultPassword, stored.Password))

	owners := map[uint]bool{}
	for _, u := range res.Users {
		owners[u.ID] = true
	}
	for _, p := range res.Posts {
		assert.True(t, owners[p.OwnerID], "post %d has unknown owner %d", p.ID, p.OwnerID)
		assert.NotEmpty(t, p.Title)
	}
}

func TestSeed_Clean(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	_, err := Seed(ctx, db, hasher, Options{NumUsers: 2, NumPosts: 3, VoteRatio: 1})
	require.NoError(t, err)

	res, err := Seed(ctx, db, hasher, Options{NumUsers: 1, NumPosts: 1, ShouldClean: true})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Votes)
	assert.Equal(t, int64(1), count(t, db, &models.User{}))
	assert.Equal(t, int64(1), count(t, db, &models.Post{}))
	assert.Equal(t, int64(0), count(t, db, &models.Vote{}))
}

func TestSeed_PostsNeedUsers(t *testing.T) {
	_, err := Seed(context.Background(), setupDB(t), auth.NewPasswordHasher(bcrypt.MinCost), Options{NumPosts: 1})
	assert.Error(t, err)
}
