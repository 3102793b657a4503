package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/wasilisha/core/user"
)

type userApi struct {
	svc *user.Service
}

func registerUserAPI(e *echo.Echo, jwt echo.MiddlewareFunc, svc *user.Service) {
	api := userApi{svc: svc}

	// un-authed endpoints
	e.POST("/register", api.register)
	e.POST("/login", api.login)
	e.GET("/logout", api.logout)

	// authed endpoints
	e.GET("/dashboard", api.dashboard, jwt)
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	usr, err := api.svc.Register(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) login(ctx echo.Context) error {
	var data user.Login
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Login")
	}

	usr, err := api.svc.Authenticate(data)
	if err != nil {
		return err
	}

	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	ctx.SetCookie(newSessionCookie(token, time.Unix(claims.ExpiresAt, 0)))
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *userApi) logout(ctx echo.Context) error {
	ctx.SetCookie(expiredSessionCookie())
	return ctx.JSON(http.StatusOK, echo.Map{"message": "logged out successfully"})
}

// dashboard resolves the session to its role-specific landing route.
func (api *userApi) dashboard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	redirect := "/student"
	if claims.Role == user.RoleFaculty {
		redirect = "/faculty"
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"name":     claims.Name,
		"role":     claims.Role,
		"redirect": redirect,
	})
}
