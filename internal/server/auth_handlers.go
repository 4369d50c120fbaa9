package server

import (
	"strings"

	"socialapi/internal/middleware"
	"socialapi/internal/models"
	"socialapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Login handles POST /login with form fields username (the email) and password.
func (s *Server) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{
			Detail: "username and password form fields are required",
			Code:   models.CodeValidation,
		})
	}

	resp, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Email:    username,
		Password: password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// AuthRequired resolves the bearer token to a user or answers 401.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenString = parts[1]
			}
		}

		user, err := s.authService.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			if models.IsCode(err, models.CodeUnauthorized) {
				c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			}
			return respondError(c, err)
		}

		c.Locals("user", user)
		c.Locals("userID", user.ID)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))

		return c.Next()
	}
}
