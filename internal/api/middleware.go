package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/thenoetrevino/issueboard/internal/auth"
)

const claimsKey = "auth.claims"

// requestLogger logs one structured line per request and feeds the metrics
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			s.metrics.InFlight.Add(1)
			defer s.metrics.InFlight.Add(-1)

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is final
				c.Error(err)
			}

			status := c.Response().Status
			s.metrics.observe(status)

			entry := s.logger.WithFields(log.Fields{
				"method":     c.Request().Method,
				"path":       c.Path(),
				"status":     status,
				"latency_ms": durationToMillis(time.Since(start)),
			})
			switch {
			case status >= http.StatusInternalServerError:
				entry.Error("request failed")
			case status >= http.StatusBadRequest:
				entry.Warn("request rejected")
			default:
				entry.Info("request")
			}
			return nil
		}
	}
}

// requireAuth rejects requests without a valid bearer token and stores the
// verified claims on the context
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := s.issuer.VerifyHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return err
		}
		c.Set(claimsKey, claims)
		return next(c)
	}
}

// currentUserID returns the authenticated user, or "" on public routes
func currentUserID(c echo.Context) string {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	if !ok || claims == nil {
		return ""
	}
	return claims.UserID()
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
