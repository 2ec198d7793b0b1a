package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/metinatakli/movie-booking-web/internal/domain"
	"github.com/metinatakli/movie-booking-web/internal/render"
	"github.com/metinatakli/movie-booking-web/internal/session"
	appvalidator "github.com/metinatakli/movie-booking-web/internal/validator"
)

const (
	msgLoginSuccessful  = "Login successful!"
	msgAccountCreated   = "Account created successfully!"
	msgAlreadyLoggedIn  = "You are already logged in"
	msgLogoutSuccessful = "You have been logged out."
)

func (app *Application) LoginPage(w http.ResponseWriter, r *http.Request) {
	if app.sessions.HasUser(r.Context()) {
		app.flash(r, msgAlreadyLoggedIn)
		app.redirect(w, r, "/")
		return
	}

	app.render(w, r, http.StatusOK, render.PageLogin, render.PageData{Title: "Login"})
}

func (app *Application) Login(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	if app.sessions.HasUser(r.Context()) {
		app.flash(r, msgAlreadyLoggedIn)
		app.redirect(w, r, "/")
		return
	}

	err := r.ParseForm()
	if err != nil {
		app.authFailed(w, r, render.PageLogin, http.StatusBadRequest, nil, err)
		return
	}

	creds := domain.Credentials{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	form := map[string]string{"email": creds.Email}

	err = appvalidator.ValidateForm(app.validator, creds)
	if err != nil {
		logger.Warn("login validation failed")
		app.authFailed(w, r, render.PageLogin, http.StatusUnprocessableEntity, form, err)
		return
	}

	user, err := app.auth.Login(r.Context(), creds)
	if err != nil {
		logger.Warn("login failed", "error", err)
		app.authFailed(w, r, render.PageLogin, http.StatusUnauthorized, form, err)
		return
	}

	err = app.startUserSession(r, user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.flash(r, msgLoginSuccessful)
	app.redirect(w, r, "/")
}

func (app *Application) SignupPage(w http.ResponseWriter, r *http.Request) {
	if app.sessions.HasUser(r.Context()) {
		app.flash(r, msgAlreadyLoggedIn)
		app.redirect(w, r, "/")
		return
	}

	app.render(w, r, http.StatusOK, render.PageSignup, render.PageData{Title: "Sign Up"})
}

func (app *Application) Signup(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	err := r.ParseForm()
	if err != nil {
		app.authFailed(w, r, render.PageSignup, http.StatusBadRequest, nil, err)
		return
	}

	form := map[string]string{
		"name":   strings.TrimSpace(r.PostForm.Get("name")),
		"email":  strings.TrimSpace(r.PostForm.Get("email")),
		"age":    strings.TrimSpace(r.PostForm.Get("age")),
		"gender": strings.TrimSpace(r.PostForm.Get("gender")),
	}

	age, _ := strconv.Atoi(form["age"])

	req := domain.SignupRequest{
		Name:     form["name"],
		Email:    form["email"],
		Password: r.PostForm.Get("password"),
		Age:      age,
		Gender:   form["gender"],
	}

	err = appvalidator.ValidateForm(app.validator, req)
	if err != nil {
		logger.Warn("signup validation failed", "error", err)
		app.authFailed(w, r, render.PageSignup, http.StatusUnprocessableEntity, form, err)
		return
	}

	user, err := app.auth.Signup(r.Context(), req)
	if err != nil {
		logger.Warn("signup failed", "error", err)
		app.authFailed(w, r, render.PageSignup, http.StatusBadRequest, form, err)
		return
	}

	err = app.startUserSession(r, user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if app.mailer != nil {
		app.background(r, "send welcome email", func() error {
			return app.mailer.Send(req.Email, "user_welcome.tmpl", map[string]any{"name": req.Name})
		})
	}

	app.flash(r, msgAccountCreated)
	app.redirect(w, r, "/")
}

func (app *Application) Logout(w http.ResponseWriter, r *http.Request) {
	token := app.sessions.Token(r.Context())

	err := app.sessions.Clear(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.workflows.Forget(token)

	app.flash(r, msgLogoutSuccessful)
	app.redirect(w, r, "/")
}

// startUserSession stores the user and carries the booking workflow over to
// the renewed session token.
func (app *Application) startUserSession(r *http.Request, user json.RawMessage) error {
	oldToken, newToken, err := app.sessions.SetUser(r.Context(), user)
	if err != nil {
		return err
	}

	app.workflows.Rename(oldToken, newToken)

	return nil
}

// authFailed renders the form again with the reason of the failure. Errors
// other than validation and backend failures are server errors.
func (app *Application) authFailed(w http.ResponseWriter, r *http.Request, page string, status int, form map[string]string, err error) {
	var (
		validationErr *domain.ValidationError
		networkErr    *domain.NetworkError
		dataShapeErr  *domain.DataShapeError
	)

	message := err.Error()

	switch {
	case errors.As(err, &validationErr):
		message = validationErr.Reason
	case errors.As(err, &networkErr), errors.As(err, &dataShapeErr):
	case status == http.StatusBadRequest:
	default:
		app.serverErrorResponse(w, r, err)
		return
	}

	title := "Login"
	if page == render.PageSignup {
		title = "Sign Up"
	}

	app.render(w, r, status, page, render.PageData{
		Title: title,
		Form:  form,
		Flash: &session.Flash{Message: message, Error: true},
	})
}
