// Package controllers binds HTTP requests to the services layer.
package controllers

import (
	"errors"
	"net/http"

	"github.com/floracart/floracart/app/services"
	"github.com/floracart/floracart/app/views"
	"github.com/floracart/floracart/pkg/bind"
	"github.com/floracart/floracart/pkg/logger"
	"github.com/floracart/floracart/pkg/session"
)

// User-facing messages. Login failures share one message regardless of
// whether the email was unknown or the password wrong.
const (
	msgInvalidCredentials = "Invalid email or password."
	msgDuplicateUser      = "User with this email already exists."
	msgLoginError         = "An error occurred during login."
	msgSignupError        = "An error occurred during signup."
)

// credentialsPayload is the typed body of POST /login.
type credentialsPayload struct {
	Email    string `form:"email"    json:"email"    validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

// signupPayload additionally enforces a minimum password length.
type signupPayload struct {
	Email    string `form:"email"    json:"email"    validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=8"`
}

// authView is the data rendered into the login and signup pages.
type authView struct {
	Error string
}

// AuthController serves the signup, login, and logout routes.
type AuthController struct {
	auth     *services.AuthService
	sessions *session.Manager
}

// NewAuthController builds an AuthController.
func NewAuthController(auth *services.AuthService, sessions *session.Manager) *AuthController {
	return &AuthController{auth: auth, sessions: sessions}
}

// LoginForm renders the login page. Logged-in users are sent home.
func (c *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromCtx(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	views.Render(w, http.StatusOK, "login.html", authView{})
}

// Login handles the login form submission.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	errs, err := bind.Request(r, &payload)
	if err != nil || len(errs) > 0 {
		views.Render(w, http.StatusUnprocessableEntity, "login.html", authView{Error: msgInvalidCredentials})
		return
	}

	user, err := c.auth.Login(r.Context(), payload.Email, payload.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		views.Render(w, http.StatusOK, "login.html", authView{Error: msgInvalidCredentials})
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("login", "error", err)
		views.Render(w, http.StatusInternalServerError, "login.html", authView{Error: msgLoginError})
		return
	}

	if err := c.sessions.Issue(r.Context(), w, session.Identity{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
	}); err != nil {
		logger.WithCtx(r.Context()).Error("login: issue session", "error", err)
		views.Render(w, http.StatusInternalServerError, "login.html", authView{Error: msgLoginError})
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// SignupForm renders the signup page.
func (c *AuthController) SignupForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromCtx(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	views.Render(w, http.StatusOK, "signup.html", authView{})
}

// Signup handles the signup form submission.
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var payload signupPayload
	errs, err := bind.Request(r, &payload)
	if err != nil {
		views.Render(w, http.StatusUnprocessableEntity, "signup.html", authView{Error: msgSignupError})
		return
	}
	if len(errs) > 0 {
		views.Render(w, http.StatusUnprocessableEntity, "signup.html", authView{Error: firstError(errs)})
		return
	}

	user, err := c.auth.Signup(r.Context(), payload.Email, payload.Password)
	if errors.Is(err, services.ErrDuplicateUser) {
		views.Render(w, http.StatusOK, "signup.html", authView{Error: msgDuplicateUser})
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("signup", "error", err)
		views.Render(w, http.StatusInternalServerError, "signup.html", authView{Error: msgSignupError})
		return
	}

	if err := c.sessions.Issue(r.Context(), w, session.Identity{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
	}); err != nil {
		logger.WithCtx(r.Context()).Error("signup: issue session", "error", err)
		views.Render(w, http.StatusInternalServerError, "signup.html", authView{Error: msgSignupError})
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout destroys the session and redirects to the login page. A failed
// store delete is swallowed — the redirect happens regardless.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c.sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// firstError returns one message from a validation error map.
func firstError(errs map[string]string) string {
	for _, msg := range errs {
		return msg
	}
	return ""
}
