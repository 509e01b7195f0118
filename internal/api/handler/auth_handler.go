package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todo-render/internal/api/middleware"
	"github.com/99minutos/todo-render/internal/api/render"
	"github.com/99minutos/todo-render/internal/core/domain"
	"github.com/99minutos/todo-render/internal/core/ports"
)

// AuthHandler serves the login page and opens and closes sessions.
type AuthHandler struct {
	sessions       ports.SessionService
	cookie         *middleware.SessionCookie
	googleClientID string
}

func NewAuthHandler(sessions ports.SessionService, cookie *middleware.SessionCookie, googleClientID string) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookie: cookie, googleClientID: googleClientID}
}

// LoginPage renders the login form. A browser that already has a session is
// sent to the list.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if _, ok := middleware.SessionFrom(c); ok {
		return c.Redirect(http.StatusSeeOther, ServerSidePath)
	}
	return c.Render(http.StatusOK, render.LoginPage, render.Login{GoogleClientID: h.googleClientID})
}

// Login handles the login form.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginForm
	if err := c.Bind(&req); err != nil {
		return h.loginFailed(c, http.StatusBadRequest, "", "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		return h.loginFailed(c, http.StatusUnprocessableEntity, req.Email, err.Error())
	}

	sess, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return h.loginFailed(c, http.StatusUnauthorized, req.Email, "invalid email or password")
	}
	if err != nil {
		return err
	}

	h.cookie.Write(c, sess.ID)
	return c.Redirect(http.StatusSeeOther, ServerSidePath)
}

func (h *AuthHandler) loginFailed(c echo.Context, status int, email, msg string) error {
	return c.Render(status, render.LoginPage, render.Login{
		Email:          email,
		Error:          msg,
		GoogleClientID: h.googleClientID,
	})
}

// GoogleLogin exchanges a Google identity token for a session.
//
// @Summary      Sign in with Google
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      googleLoginRequest  true  "Google identity token"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/google [post]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	sess, err := h.sessions.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}

	h.cookie.Write(c, sess.ID)
	return c.JSON(http.StatusOK, loginResponse{Role: string(sess.Role), Redirect: ServerSidePath})
}

// Logout ends the session and drops the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context(), h.cookie.Read(c)); err != nil {
		return err
	}
	h.cookie.Expire(c)
	return c.Redirect(http.StatusSeeOther, LoginPath)
}
