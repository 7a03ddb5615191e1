package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cloudnative-denmark/conference-companion/config"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/identity"
	authrepo "github.com/cloudnative-denmark/conference-companion/internal/auth/repository"
	authservice "github.com/cloudnative-denmark/conference-companion/internal/auth/service"
	"github.com/cloudnative-denmark/conference-companion/internal/content"
	ratingrepo "github.com/cloudnative-denmark/conference-companion/internal/ratings/repository"
	ratingservice "github.com/cloudnative-denmark/conference-companion/internal/ratings/service"
	"github.com/cloudnative-denmark/conference-companion/internal/schedule/cache"
	"github.com/cloudnative-denmark/conference-companion/internal/schedule/client"
	schedservice "github.com/cloudnative-denmark/conference-companion/internal/schedule/service"
	"github.com/cloudnative-denmark/conference-companion/internal/timefmt"
)

// App is the wired set of services behind the API.
type App struct {
	Config    *config.Config
	Formatter timefmt.Formatter

	Redis    *redis.Client
	Firebase *FirebaseClients

	Schedule  *schedservice.ScheduleService
	Refresher *schedservice.Refresher
	Auth      *authservice.AuthService
	Ratings   *ratingservice.RatingService
	Feedback  *ratingservice.FeedbackService
	Catalog   *content.Catalog
}

// NewApp builds every service from cfg. Without Firebase settings the
// document stores are kept in memory and request headers identify the
// user, which is only meant for development.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Schedule.Location()
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Formatter: timefmt.NewFormatter(loc, nil)}

	app.Redis, err = OpenRedis(ctx, RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}

	var profiles authrepo.ProfileStore
	var ratings ratingrepo.Repository
	var admin authservice.AdminAuth
	if cfg.Firebase.Enabled() {
		app.Firebase, err = InitializeFirebase(ctx, cfg.Firebase)
		if err != nil {
			app.Close()
			return nil, err
		}
		profiles = authrepo.NewFirestoreProfiles(app.Firebase.Firestore)
		ratings = ratingrepo.NewFirestoreRepository(app.Firebase.Firestore)
		admin = app.Firebase.Auth
	} else {
		if cfg.IsProduction() {
			app.Close()
			return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH or FIREBASE_PROJECT_ID is required in production")
		}
		log.Println("Firebase not configured, using in-memory stores and header auth")
		profiles = authrepo.NewMemoryProfiles(nil)
		ratings = ratingrepo.NewMemoryRepository(nil)
	}

	sessionize := client.NewSessionizeClient(client.Options{
		BaseURL: cfg.Sessionize.BaseURL,
		EventID: cfg.Sessionize.EventID,
		Timeout: cfg.Sessionize.Timeout,
		RPS:     cfg.Sessionize.RPS,
		Burst:   cfg.Sessionize.Burst,
	})
	var src client.RawSource = sessionize
	if app.Redis != nil {
		src = cache.NewFeedCache(app.Redis, sessionize, sessionize.EventID(), cfg.Schedule.CacheTTL)
	}
	app.Schedule = schedservice.NewScheduleService(client.NewFeed(src))
	app.Refresher = schedservice.NewRefresher(app.Schedule, cfg.Schedule.RefreshCron, 2*cfg.Sessionize.Timeout)

	provider := identity.NewClient(cfg.Firebase.IdentityURL, cfg.Firebase.APIKey, 10*time.Second)
	app.Auth = authservice.NewAuthService(provider, admin, profiles)

	app.Ratings = ratingservice.NewRatingService(ratings).WithStartGate(app.Schedule, app.Formatter)
	app.Feedback = ratingservice.NewFeedbackService(app.Ratings, app.Schedule)

	app.Catalog = content.NewCatalog(cfg.Content.Dir, cfg.Content.Hotels)
	if err := app.Catalog.Reload(); err != nil {
		log.Printf("Warning: content not loaded: %v", err)
	}

	return app, nil
}

// Close releases the Redis and Firestore connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("Warning: closing redis: %v", err)
		}
	}
	if err := a.Firebase.Close(); err != nil {
		log.Printf("Warning: closing firestore: %v", err)
	}
}
