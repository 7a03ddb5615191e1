package routes

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	authdomain "github.com/cloudnative-denmark/conference-companion/internal/auth/domain"
	authhttp "github.com/cloudnative-denmark/conference-companion/internal/auth/http"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/middleware"
	authservice "github.com/cloudnative-denmark/conference-companion/internal/auth/service"
	"github.com/cloudnative-denmark/conference-companion/internal/content"
	contenthttp "github.com/cloudnative-denmark/conference-companion/internal/content/http"
	ratinghttp "github.com/cloudnative-denmark/conference-companion/internal/ratings/http"
	ratingservice "github.com/cloudnative-denmark/conference-companion/internal/ratings/service"
	schedhttp "github.com/cloudnative-denmark/conference-companion/internal/schedule/http"
	schedservice "github.com/cloudnative-denmark/conference-companion/internal/schedule/service"
	"github.com/cloudnative-denmark/conference-companion/internal/timefmt"
)

type V1Deps struct {
	Formatter timefmt.Formatter
	Schedule  *schedservice.ScheduleService
	Auth      *authservice.AuthService
	Ratings   *ratingservice.RatingService
	Feedback  *ratingservice.FeedbackService
	Catalog   *content.Catalog

	// Verifier checks bearer tokens. When nil, DevAuth trusts X-User-* headers
	// and the sign-in routes are not mounted.
	Verifier middleware.TokenVerifier
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	authed := api.Group("")
	if dep.Verifier != nil {
		authed.Use(middleware.FirebaseAuthMiddleware(dep.Verifier))
	} else {
		authed.Use(middleware.DevAuth())
	}
	admin := authed.Group("")
	admin.Use(middleware.RequireAdmin())

	schedhttp.New(dep.Schedule, dep.Formatter).Register(api, admin)
	contenthttp.New(dep.Catalog).Register(r, api)

	authHandler := authhttp.New(dep.Auth)
	if dep.Verifier != nil {
		authHandler.Register(api, authed)
	} else {
		authHandler.RegisterProfile(authed)
	}

	ratinghttp.New(dep.Ratings, dep.Feedback, ViewerFromProfile(dep.Auth)).Register(authed, admin)
}

// ProfileSource looks up user profiles.
type ProfileSource interface {
	GetProfile(ctx context.Context, uid string) (*authdomain.UserProfile, error)
}

// ViewerFromProfile treats users whose profile has the speaker role as the
// schedule speaker linked by their Sessionize id.
func ViewerFromProfile(profiles ProfileSource) ratinghttp.ViewerResolver {
	return func(ctx context.Context, uid string, isAdmin bool) (ratingservice.Viewer, error) {
		viewer := ratingservice.Viewer{UserID: uid, IsAdmin: isAdmin}

		profile, err := profiles.GetProfile(ctx, uid)
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return viewer, nil
		}
		if err != nil {
			return viewer, err
		}

		if profile.Role == authdomain.RoleSpeaker && profile.SessionizeID != "" {
			viewer.IsSpeaker = true
			viewer.SpeakerID = profile.SessionizeID
		}
		return viewer, nil
	}
}
