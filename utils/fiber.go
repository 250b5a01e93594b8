package utils

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
)

const authScheme = "Bearer"

var (
	publicKey rsa.PublicKey
)

type Router struct {
	fiber.Router
}

func GetDefaultRouter(app *fiber.App) *Router {
	temp := app.Group("")
	return &Router{Router: temp}
}

func InitSharedConstants(pubKey rsa.PublicKey) {
	publicKey = pubKey
}

type JwtMiddlewareConfig struct {
	ReadFrom string
	Subject  string
	Scopes   []string
}

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

// Protected rejects requests without a valid access token and stores the
// caller's user id in c.Locals("user").
func Protected(config JwtMiddlewareConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := resolveUser(c, config)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":             "access_denied",
				"error_description": err.Error(),
			})
		}

		c.Locals("user", id)
		return c.Next()
	}
}

// Maybe resolves the caller when a token is present but lets anonymous
// requests through with user id 0. Used on routes whose resources may be
// publicly readable; the access evaluator makes the actual call.
func Maybe(config JwtMiddlewareConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := resolveUser(c, config)
		if err != nil {
			c.Locals("user", int64(0))
		} else {
			c.Locals("user", id)
		}

		return c.Next()
	}
}

func resolveUser(c *fiber.Ctx, config JwtMiddlewareConfig) (int64, error) {
	rawToken, err := func() (string, error) {
		if config.ReadFrom == "cookie" {
			token := c.Cookies("accessToken")
			if token == "" {
				return "", errors.New("Missing or malformed JWT")
			}

			return token, nil
		}

		auth := c.Get("Authorization")
		l := len(authScheme)
		if len(auth) > l+1 && strings.EqualFold(auth[:l], authScheme) {
			return auth[l+1:], nil
		}

		return "", errors.New("Missing or malformed JWT")
	}()
	if err != nil {
		return 0, err
	}

	tok, err := jwt.Parse(rawToken, func(jwtToken *jwt.Token) (interface{}, error) {
		if _, ok := jwtToken.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected method: %s", jwtToken.Header["alg"])
		}
		return &publicKey, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return 0, errors.New("Invalid JWT")
	}

	if sub, _ := claims["sub"].(string); config.Subject != "" && sub != config.Subject {
		return 0, errors.New("Invalid JWT")
	}

	if len(config.Scopes) > 0 {
		scope, _ := claims["scope"].(string)
		scopeArray := strings.Split(scope, " ")
		for _, required := range config.Scopes {
			if IsInList(required, &scopeArray) == -1 {
				return 0, errors.New("Invalid scope")
			}
		}
	}

	user, _ := claims["user"].(string)
	id, err := strconv.ParseInt(user, 10, 64)
	if err != nil {
		return 0, errors.New("Invalid JWT")
	}

	return id, nil
}

func StandardInternalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func StandardCouldNotParse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Could not parse request",
	})
}
