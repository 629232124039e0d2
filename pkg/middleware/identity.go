package middleware

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/faults"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

type subjectKey struct{}
type userKey struct{}

// UserFinder loads a user by primary key. Satisfied by the user
// repository; tests plug in whatever they like.
type UserFinder interface {
	FindByID(id uint) (*models.User, error)
}

// SubjectFromCtx returns the verified subject id, or (0, false) for an
// anonymous request.
func SubjectFromCtx(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(subjectKey{}).(uint)
	return id, ok
}

// UserFromCtx returns the hydrated user, or nil for an anonymous request
// (including the case where the subject was deleted after token issuance).
func UserFromCtx(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey{}).(*models.User)
	return u
}

// WithUser plants a user on ctx. Exported for tests that exercise guarded
// operations without an HTTP round trip.
func WithUser(ctx context.Context, u *models.User) context.Context {
	if u == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, subjectKey{}, u.ID)
	return context.WithValue(ctx, userKey{}, u)
}

// Identity resolves the session cookie into a subject id. Verification
// fails closed: a missing, malformed, or tampered token leaves the
// request anonymous and NEVER aborts it. Guarded operations reject
// anonymous callers themselves.
func Identity(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := tokens.Verify(cookie.Value)
			if err != nil {
				// Unverifiable token: proceed anonymous, never trust it.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Hydrate loads the resolved subject's record (permissions, email, name)
// once per request. The result lives only in this request's context, so
// permission changes apply from the very next request. A subject deleted
// between token issuance and use degrades to anonymous; any other load
// failure aborts the request as a transient store error, so an outage
// never masquerades as a missing session.
func Hydrate(users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := SubjectFromCtx(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindByID(userID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.WithCtx(r.Context()).Debug("session subject not found", "user_id", userID)
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				logger.WithCtx(r.Context()).Error("session hydration failed", "user_id", userID, "error", err)
				response.Fault(w, faults.Wrap(faults.TransientStore, "could not load your session, please try again", err))
				return
			}

			ctx := context.WithValue(r.Context(), userKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
