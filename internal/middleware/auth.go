package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/deppfellow/meetapp/internal/errs"
	"github.com/labstack/echo/v4"
)

const (
	MsgTokenMissing = "Token not provided"
	MsgTokenInvalid = "Token invalid"
)

// TokenParser resolves a bearer token to the user id it was issued for.
type TokenParser interface {
	Parse(raw string) (int64, error)
}

type AuthMiddleware struct {
	tokens TokenParser
}

func NewAuthMiddleware(tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// otherwise stores the acting user id under UserIDKey.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		logger := GetLogger(c)

		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			logger.Warn().
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("missing bearer token")
			return errs.NewUnauthorizedError(MsgTokenMissing, true)
		}

		userID, err := auth.tokens.Parse(raw)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("rejected bearer token")
			return errs.NewUnauthorizedError(MsgTokenInvalid, true)
		}

		c.Set(UserIDKey, strconv.FormatInt(userID, 10))

		// Everything downstream logs as this user.
		withUser := logger.With().Int64("user_id", userID).Logger()
		setLogger(c, &withUser)

		logger.Debug().
			Str("function", "RequireAuth").
			Int64("user_id", userID).
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// GetActorID returns the authenticated user id set by RequireAuth.
func GetActorID(c echo.Context) (int64, error) {
	userID, err := strconv.ParseInt(GetUserID(c), 10, 64)
	if err != nil || userID <= 0 {
		return 0, errs.NewUnauthorizedError(MsgTokenInvalid, true)
	}
	return userID, nil
}
