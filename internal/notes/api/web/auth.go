package web

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/Leopold1975/notes_app/internal/notes/services/authservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/validate"
)

const afterLogin = "/notes"

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home", pageData{Title: "Notes"}, nil) //nolint:exhaustruct
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", pageData{ //nolint:exhaustruct
		Title: "Log in",
		Form:  map[string]string{"redirectTo": r.URL.Query().Get("redirectTo")},
	}, nil)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	form := map[string]string{
		"username":   strings.TrimSpace(r.PostFormValue("username")),
		"redirectTo": r.PostFormValue("redirectTo"),
		"remember":   r.PostFormValue("remember"),
	}
	password := r.PostFormValue("password")

	errs := validate.Errors{}
	if form["username"] == "" {
		errs.Add("username", "Username is required")
	}

	if password == "" {
		errs.Add("password", "Password is required")
	}

	if len(errs) != 0 {
		h.renderForm(w, r, "login", "Log in", form, errs)

		return
	}

	u, err := h.svc.Auth.Login(r.Context(), form["username"], password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			h.renderForm(w, r, "login", "Log in", form, validate.Errors{"form": "Invalid username or password"})

			return
		}

		h.serverError(w, r, err)

		return
	}

	if err := h.sessions.SignIn(w, r, u.ID, form["remember"] == "on"); err != nil {
		h.serverError(w, r, err)

		return
	}

	h.toast(w, r, Toast{Kind: ToastSuccess, Title: "Welcome back", Description: "Signed in as " + u.Username})
	http.Redirect(w, r, safeRedirect(form["redirectTo"], afterLogin), http.StatusSeeOther)
}

func (h *Handler) signupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signup", pageData{ //nolint:exhaustruct
		Title: "Sign up",
		Form:  map[string]string{"redirectTo": r.URL.Query().Get("redirectTo")},
	}, nil)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	form := map[string]string{
		"email":      r.PostFormValue("email"),
		"username":   r.PostFormValue("username"),
		"name":       r.PostFormValue("name"),
		"redirectTo": r.PostFormValue("redirectTo"),
	}

	u, err := h.svc.Auth.SignUp(r.Context(), authservice.SignUpRequest{
		Email:           form["email"],
		Username:        form["username"],
		Name:            form["name"],
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
		CaptchaToken:    r.PostFormValue("g-recaptcha-response"),
		RemoteIP:        clientIP(r),
	})
	if err != nil {
		var verrs validate.Errors

		switch {
		case errors.As(err, &verrs):
			h.renderForm(w, r, "signup", "Sign up", form, verrs)
		case errors.Is(err, authservice.ErrCaptcha):
			h.renderForm(w, r, "signup", "Sign up", form, validate.Errors{"form": "Captcha verification failed"})
		default:
			h.serverError(w, r, err)
		}

		return
	}

	if err := h.sessions.SignIn(w, r, u.ID, false); err != nil {
		h.serverError(w, r, err)

		return
	}

	h.toast(w, r, Toast{Kind: ToastSuccess, Title: "Welcome", Description: "Your account is ready"})
	http.Redirect(w, r, safeRedirect(form["redirectTo"], afterLogin), http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(w, r); err != nil {
		h.serverError(w, r, err)

		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderForm shows a form again with the submitted values and field errors.
func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, page, title string,
	form map[string]string, errs validate.Errors,
) {
	h.render(w, r, http.StatusBadRequest, page, pageData{ //nolint:exhaustruct
		Title:  title,
		Form:   form,
		Errors: errs,
	}, nil)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
