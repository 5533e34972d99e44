package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thenoetrevino/issueboard/internal/models"
	userservice "github.com/thenoetrevino/issueboard/internal/services/user"
)

type createUserBody struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Avatar   *string     `json:"avatar"`
	Role     models.Role `json:"role"`
}

type updateUserBody struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email"`
	Password *string      `json:"password"`
	Avatar   *string      `json:"avatar"`
	Role     *models.Role `json:"role"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) listUsers(c echo.Context) error {
	users, err := s.app.UserService.GetAllUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(users))
}

func (s *Server) getUser(c echo.Context) error {
	u, err := s.app.UserService.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) createUser(c echo.Context) error {
	var body createUserBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	u, err := s.app.UserService.CreateUser(c.Request().Context(), userservice.CreateUserRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Avatar:   body.Avatar,
		Role:     body.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

func (s *Server) updateUser(c echo.Context) error {
	var body updateUserBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	u, err := s.app.UserService.UpdateUser(c.Request().Context(), userservice.UpdateUserRequest{
		ID:       c.Param("id"),
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Avatar:   body.Avatar,
		Role:     body.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) deleteUser(c echo.Context) error {
	if err := s.app.UserService.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) login(c echo.Context) error {
	var body loginBody
	if err := c.Bind(&body); err != nil {
		return err
	}
	u, err := s.app.UserService.Authenticate(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	token, err := s.issuer.Issue(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{User: u, Token: token})
}

// nonNil keeps empty collections encoding as [] instead of null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
