package middleware

import (
	"errors"
	"net/http"

	"adsyclub/internal/common"
	"adsyclub/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AdminMiddleware guards the administrative routes.
type AdminMiddleware struct {
	users services.UserService
}

func NewAdminMiddleware(users services.UserService) *AdminMiddleware {
	return &AdminMiddleware{users: users}
}

// RequireAdmin re-reads the caller from the database. The token claim alone is
// not trusted because admin rights can be revoked before the token expires.
func (m *AdminMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if !common.IsAdminFromContext(ctx) {
				return common.SendForbiddenError(c)
			}

			user, err := m.users.Get(ctx, userID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.SendUnauthorizedError(c)
				}
				log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load caller for admin check")
				return c.JSON(http.StatusInternalServerError, common.CreateErrorResponse("SERVER_ERROR", "Error checking permission", nil))
			}
			if !user.IsAdmin {
				return common.SendForbiddenError(c)
			}
			return next(c)
		}
	}
}
