package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/app"
	profileUC "github.com/khoahotran/folio/internal/application/usecase/profile"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/internal/domain/experience"
	"github.com/khoahotran/folio/internal/domain/post"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/internal/domain/project"
	"github.com/khoahotran/folio/internal/domain/user"
	"github.com/khoahotran/folio/internal/state"
	"github.com/khoahotran/folio/pkg/logger"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	fmt.Println("seeding demo portfolio...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := persistence.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot open store: %v", err)
	}
	defer store.Close(context.Background())

	cache, closeCache, err := app.OpenCache(cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot open cache: %v", err)
	}
	defer closeCache()

	svcs := app.NewServices(cfg, app.Deps{Store: store, Cache: cache}, appLogger)

	owner := user.Principal{
		ID:          getenv("SEED_OWNER_ID", "github:demo"),
		DisplayName: getenv("SEED_OWNER_NAME", "Demo Owner"),
		Email:       getenv("SEED_OWNER_EMAIL", "demo@example.com"),
	}
	username := getenv("SEED_USERNAME", "demo")

	session := state.NewSession()
	defer session.Close()
	ws := svcs.Workspace(session, appLogger)
	defer ws.Close()

	session.SignIn(owner)
	if !ws.IsSelf() {
		log.Fatalf("workspace did not follow %s", owner.ID)
	}

	tagline := "Building small, sharp tools"
	skills := []string{"Go", "PostgreSQL", "Redis", "Kafka"}
	if _, err := svcs.Profile.ExecuteSaveProfile(ctx, profileUC.SaveProfileInput{
		Principal: owner,
		Update:    profile.Update{Username: &username, Tagline: &tagline, Skills: &skills},
	}); err != nil {
		log.Fatalf("cannot save profile: %v", err)
	}

	if len(ws.Projects.Records()) == 0 {
		if _, err := ws.Projects.Add(ctx, owner, &project.Project{
			Title:        "Folio",
			Description:  "Portfolio backend with pluggable document stores.",
			Technologies: []string{"Go", "Gin", "MongoDB"},
			KeyFeatures:  []string{"Public pages per username", "RSS feed"},
		}); err != nil {
			log.Fatalf("cannot add project: %v", err)
		}
	}
	if len(ws.Posts.Records()) == 0 {
		if _, err := ws.Posts.Add(ctx, owner, &post.Post{
			Title:   "Hello, world",
			Content: "First post on the new portfolio.",
			Tags:    []string{"meta"},
		}); err != nil {
			log.Fatalf("cannot add post: %v", err)
		}
	}
	if len(ws.Experience.Records()) == 0 {
		if _, err := ws.Experience.Add(ctx, owner, &experience.Experience{
			Type:    experience.KindWork,
			Title:   "Backend Engineer",
			Company: "Example Corp",
			Date:    "2021 - present",
		}); err != nil {
			log.Fatalf("cannot add experience: %v", err)
		}
	}

	if err := ws.Follow(ctx, username); err != nil {
		log.Fatalf("cannot resolve %s: %v", username, err)
	}
	fmt.Printf("seeded %s: %d projects, %d posts, %d experience entries\n",
		svcs.Profile.PublicURL(username),
		len(ws.Projects.Records()), len(ws.Posts.Records()), len(ws.Experience.Records()))
}
