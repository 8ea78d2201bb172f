package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/services/authservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/userservice"
	"github.com/Leopold1975/notes_app/internal/notes/services/validate"
	"github.com/go-chi/chi/v5"
)

const multipartOverhead = 1 << 20

type profilePage struct {
	Profile models.User
	IsOwner bool
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Users.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, userservice.ErrNotFound) {
			h.renderError(w, r, http.StatusNotFound)

			return
		}

		h.serverError(w, r, err)

		return
	}

	me, _ := userFrom(r.Context())

	h.render(w, r, http.StatusOK, "profile", pageData{ //nolint:exhaustruct
		Title: u.DisplayName(),
		Data:  profilePage{Profile: u, IsOwner: me.ID == u.ID},
	}, map[string]string{"/users/" + chi.URLParam(r, "username"): u.DisplayName()})
}

func (h *Handler) profileImage(w http.ResponseWriter, r *http.Request) {
	body, contentType, err := h.svc.Users.Image(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, userservice.ErrNotFound) {
			http.NotFound(w, r)

			return
		}

		h.lg.Error("get profile image error", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=300")

	if _, err := io.Copy(w, body); err != nil {
		h.lg.Error("write profile image error", "error", err)
	}
}

func (h *Handler) settingsPage(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	h.render(w, r, http.StatusOK, "settings", pageData{ //nolint:exhaustruct
		Title: "Profile settings",
		Form:  map[string]string{"name": u.Name, "username": u.Username},
	}, nil)
}

func (h *Handler) renderSettings(w http.ResponseWriter, r *http.Request, form map[string]string,
	errs validate.Errors,
) {
	u, _ := userFrom(r.Context())

	if form == nil {
		form = map[string]string{}
	}

	if _, ok := form["name"]; !ok {
		form["name"] = u.Name
		form["username"] = u.Username
	}

	h.render(w, r, http.StatusBadRequest, "settings", pageData{ //nolint:exhaustruct
		Title:  "Profile settings",
		Form:   form,
		Errors: errs,
	}, nil)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	form := map[string]string{
		"name":     r.PostFormValue("name"),
		"username": r.PostFormValue("username"),
	}

	_, err := h.svc.Users.UpdateProfile(r.Context(), userservice.UpdateProfileRequest{
		UserID:   u.ID,
		Name:     form["name"],
		Username: form["username"],
	})
	if err != nil {
		var verrs validate.Errors
		if errors.As(err, &verrs) {
			h.renderSettings(w, r, form, verrs)

			return
		}

		h.serverError(w, r, err)

		return
	}

	h.toast(w, r, Toast{Kind: ToastSuccess, Title: "Profile updated"})
	http.Redirect(w, r, "/settings/profile", http.StatusSeeOther)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	err := h.svc.Auth.ChangePassword(r.Context(), authservice.ChangePasswordRequest{
		UserID:          u.ID,
		CurrentPassword: r.PostFormValue("currentPassword"),
		NewPassword:     r.PostFormValue("newPassword"),
		ConfirmPassword: r.PostFormValue("confirmNewPassword"),
	})
	if err != nil {
		var verrs validate.Errors
		if errors.As(err, &verrs) {
			h.renderSettings(w, r, nil, verrs)

			return
		}

		h.serverError(w, r, err)

		return
	}

	h.toast(w, r, Toast{Kind: ToastSuccess, Title: "Password changed"})
	http.Redirect(w, r, "/settings/profile", http.StatusSeeOther)
}

func (h *Handler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, userservice.MaxImageSize+multipartOverhead)

	file, _, err := r.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderSettings(w, r, nil, validate.Errors{"photo": "Image must be at most 3 MB"})

			return
		}

		h.renderSettings(w, r, nil, validate.Errors{"photo": "Choose an image to upload"})

		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, userservice.MaxImageSize+1))
	if err != nil {
		h.serverError(w, r, err)

		return
	}

	switch err := h.svc.Users.SetImage(r.Context(), u.ID, data); {
	case err == nil:
	case errors.Is(err, userservice.ErrImageTooLarge):
		h.renderSettings(w, r, nil, validate.Errors{"photo": "Image must be at most 3 MB"})

		return
	case errors.Is(err, userservice.ErrImageUnsupported):
		h.renderSettings(w, r, nil, validate.Errors{"photo": "Use a PNG, JPEG, GIF or WebP image"})

		return
	default:
		h.serverError(w, r, err)

		return
	}

	h.toast(w, r, Toast{Kind: ToastSuccess, Title: "Photo updated"})
	http.Redirect(w, r, "/settings/profile", http.StatusSeeOther)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())

	if err := h.svc.Users.Delete(r.Context(), u.ID); err != nil {
		h.serverError(w, r, err)

		return
	}

	if err := h.sessions.SignOut(w, r); err != nil {
		h.lg.Error("sign out deleted user error", "user_id", u.ID, "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
