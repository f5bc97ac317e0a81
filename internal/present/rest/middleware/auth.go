package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/itreb/portal"
	"github.com/itreb/portal/internal/domain"
	"github.com/itreb/portal/internal/present/rest/presenter"
	"github.com/itreb/portal/internal/service"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	auth   *service.AuthService
	config domain.Config
}

func NewAuthMiddleware(
	auth *service.AuthService,
	config domain.Config,
) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   auth,
		config: config,
	}
}

// IdentifyIdentity resolves a Bearer session token into requester identity
// attributes on the request context. Requests without a usable token pass
// through anonymously; Require* guards decide what that means per route.
func (s *AuthMiddleware) IdentifyIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.IdentifyIdentity")
		defer span.End()

		authHeader := c.Request().Header.Get("authorization")

		if authHeader != "" {
			split := strings.Split(authHeader, " ")
			if len(split) != 2 {
				span.RecordError(fmt.Errorf("invalid authentication header"))
				goto skipCheckAuthorization
			}

			authType, token := split[0], split[1]
			if authType != "Bearer" {
				span.RecordError(fmt.Errorf("only Bearer is acceptable"))
				goto skipCheckAuthorization
			}

			result, err := s.auth.AuthJwt(ctx, token)
			if err != nil {
				span.RecordError(errors.Wrap(err, "AuthMiddleware.IdentifyIdentity: s.auth.AuthJwt failed"))
				goto skipCheckAuthorization
			}

			ctx = context.WithValue(ctx, domain.RequesterIDCtxKey, result.Profile.ID)
			ctx = context.WithValue(ctx, domain.RequesterRoleCtxKey, result.Profile.Role)
			if result.Profile.Portfolio != nil {
				ctx = context.WithValue(ctx, domain.RequesterPortfolioCtxKey, *result.Profile.Portfolio)
			}
			span.SetAttributes(attribute.String("RequesterId", result.Profile.ID))
		}

	skipCheckAuthorization:
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// RequireAuth rejects anonymous requests.
func (s *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if RequesterID(c) == "" {
			return presenter.Unauthorized(c, "authentication required")
		}
		return next(c)
	}
}

// RequireRole rejects anonymous requests and authenticated requesters whose
// role does not match.
func (s *AuthMiddleware) RequireRole(role portal.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if RequesterID(c) == "" {
				return presenter.Unauthorized(c, "authentication required")
			}
			if RequesterRole(c) != role {
				return presenter.Forbidden(c, "insufficient role")
			}
			return next(c)
		}
	}
}

// RequesterID returns the authenticated requester's profile id, or "".
func RequesterID(c echo.Context) string {
	id, _ := c.Request().Context().Value(domain.RequesterIDCtxKey).(string)
	return id
}

// RequesterRole returns the authenticated requester's role, or "".
func RequesterRole(c echo.Context) portal.Role {
	role, _ := c.Request().Context().Value(domain.RequesterRoleCtxKey).(portal.Role)
	return role
}

// RequesterPortfolio returns the requester's portfolio, or nil when the
// profile has none.
func RequesterPortfolio(c echo.Context) *portal.Portfolio {
	p, ok := c.Request().Context().Value(domain.RequesterPortfolioCtxKey).(portal.Portfolio)
	if !ok {
		return nil
	}
	return &p
}
