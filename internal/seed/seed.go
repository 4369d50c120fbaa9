// Package seed populates the database with demo users, posts and votes.
// It is intended for local development and tests only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"socialapi/internal/auth"
	"socialapi/internal/middleware"
	"socialapi/internal/models"
	"socialapi/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password given to every seeded user.
const DefaultPassword = "password123"

// Options controls how much data Seed creates.
type Options struct {
	NumUsers int
	NumPosts int
	// VoteRatio is the chance, per user and post, that the user voted on it.
	VoteRatio   float64
	ShouldClean bool
	Password    string
	// RandSeed makes runs reproducible; 0 picks a random seed.
	RandSeed int64
}

// Result lists what Seed created.
type Result struct {
	Users []models.User
	Posts []models.Post
	Votes int
}

// Seed creates opts.NumUsers users, opts.NumPosts posts spread across them and a
// random set of votes, going through the repositories like the API does.
func Seed(ctx context.Context, db *gorm.DB, hasher *auth.PasswordHasher, opts Options) (*Result, error) {
	if opts.NumUsers <= 0 && opts.NumPosts > 0 {
		return nil, fmt.Errorf("seed: posts need at least one user")
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}

	log := middleware.Logger.With(slog.String("component", "seed"))
	log.InfoContext(ctx, "seeding database",
		slog.Int("users", opts.NumUsers),
		slog.Int("posts", opts.NumPosts),
		slog.Bool("clean", opts.ShouldClean),
	)

	if opts.ShouldClean {
		if err := Clear(ctx, db); err != nil {
			return nil, err
		}
	}

	faker := gofakeit.New(opts.RandSeed)
	res := &Result{}

	users, err := createUsers(ctx, repository.NewUserRepository(db), hasher, faker, opts)
	if err != nil {
		return nil, err
	}
	res.Users = users

	posts, err := createPosts(ctx, repository.NewPostRepository(db), faker, users, opts.NumPosts)
	if err != nil {
		return nil, err
	}
	res.Posts = posts

	votes, err := createVotes(ctx, repository.NewVoteRepository(db), faker, users, posts, opts.VoteRatio)
	if err != nil {
		return nil, err
	}
	res.Votes = votes

	log.InfoContext(ctx, "seeding complete",
		slog.Int("users", len(res.Users)),
		slog.Int("posts", len(res.Posts)),
		slog.Int("votes", res.Votes),
	)
	return res, nil
}

// Clear removes all votes, posts and users, children first.
func Clear(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{&models.Vote{}, &models.Post{}, &models.User{}} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("seed: clear %T: %w", model, err)
		}
	}
	return nil
}

func createUsers(ctx context.Context, repo repository.UserRepository, hasher *auth.PasswordHasher, faker *gofakeit.Faker, opts Options) ([]models.User, error) {
	// One hash for everyone; bcrypt is deliberately slow.
	hashed, err := hasher.Hash(opts.Password)
	if err != nil {
		return nil, fmt.Errorf("seed: hash password: %w", err)
	}

	users := make([]models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user := models.User{
			Email:    fmt.Sprintf("%s.%d@example.com", strings.ToLower(faker.Username()), i),
			Password: hashed,
		}
		if err := repo.Create(ctx, &user); err != nil {
			return nil, fmt.Errorf("seed: create user %s: %w", user.Email, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(ctx context.Context, repo repository.PostRepository, faker *gofakeit.Faker, users []models.User, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		owner := users[faker.Number(0, len(users)-1)]
		post := models.Post{
			Title:     strings.TrimSuffix(faker.Sentence(5), "."),
			Content:   faker.Paragraph(1, 3, 8, "\n"),
			Published: faker.Float64Range(0, 1) < 0.9,
			OwnerID:   owner.ID,
		}
		if err := repo.Create(ctx, &post); err != nil {
			return nil, fmt.Errorf("seed: create post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createVotes(ctx context.Context, repo repository.VoteRepository, faker *gofakeit.Faker, users []models.User, posts []models.Post, ratio float64) (int, error) {
	if ratio <= 0 {
		return 0, nil
	}
	created := 0
	for _, user := range users {
		for _, post := range posts {
			if faker.Float64Range(0, 1) >= ratio {
				continue
			}
			if err := repo.Create(ctx, &models.Vote{UserID: user.ID, PostID: post.ID}); err != nil {
				return created, fmt.Errorf("seed: create vote: %w", err)
			}
			created++
		}
	}
	return created, nil
}
