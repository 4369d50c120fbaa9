// Command seed fills the database with demo users, posts and votes.
package main

import (
	"context"
	"flag"
	"log"

	"socialapi/internal/auth"
	"socialapi/internal/config"
	"socialapi/internal/database"
	"socialapi/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	voteRatio := flag.Float64("votes", 0.2, "Chance that a given user voted on a given post")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed (0 for random)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	res, err := seed.Seed(ctx, db, auth.NewPasswordHasher(cfg.BcryptCost), seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		VoteRatio:   *voteRatio,
		ShouldClean: *shouldClean,
		RandSeed:    *randSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d votes", len(res.Users), len(res.Posts), res.Votes)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
