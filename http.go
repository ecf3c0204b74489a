package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// APIResponse is the JSON envelope every auth endpoint answers with.
type APIResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Code    string   `json:"code,omitempty"`
	Account *Account `json:"user,omitempty"`
}

// GetSessionToken pulls the raw session token from the request: the session
// cookie first, then an Authorization header using the configured scheme.
func GetSessionToken(c *fiber.Ctx, cfg Config) string {
	if token := c.Cookies(cfg.GetContextKey()); token != "" {
		return token
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}

	scheme := cfg.GetAuthScheme()
	if scheme == "" {
		scheme = "Bearer"
	}

	if strings.HasPrefix(header, scheme+" ") {
		return strings.TrimPrefix(header, scheme+" ")
	}

	return ""
}

// StatusFromError maps a structured error to the HTTP status the envelope
// ships with.
func StatusFromError(err error) int {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return fiber.StatusInternalServerError
	}

	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryAuth, errors.CategoryAuthz:
		return fiber.StatusUnauthorized
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	case errors.CategoryOperation:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondError writes the envelope for a failed operation.
func RespondError(c *fiber.Ctx, err error) error {
	resp := APIResponse{Success: false, Error: err.Error()}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		resp.Error = richErr.Message
		resp.Code = richErr.TextCode
	}

	return c.Status(StatusFromError(err)).JSON(resp)
}

func setSessionCookie(c *fiber.Ctx, cfg Config, token string, duration time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.GetContextKey(),
		Value:    token,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func clearSessionCookie(c *fiber.Ctx, cfg Config) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.GetContextKey(),
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
