package web

import (
	"net/http"
	"strings"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/services/userservice"
	"github.com/oapi-codegen/runtime"
)

type usersPage struct {
	Search string
	Users  []models.User
	Pager  pager
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, ok := h.queryPage(w, r)
	if !ok {
		return
	}

	var search string
	if err := runtime.BindQueryParameter("form", true, false, "search", r.URL.Query(), &search); err != nil {
		h.renderError(w, r, http.StatusBadRequest)

		return
	}

	search = strings.TrimSpace(search)

	res, err := h.svc.Users.List(r.Context(), userservice.ListRequest{Search: search, Page: page})
	if err != nil {
		h.serverError(w, r, err)

		return
	}

	h.render(w, r, http.StatusOK, "admin_users", pageData{ //nolint:exhaustruct
		Title: "Users",
		Data: usersPage{
			Search: search,
			Users:  res.Users,
			Pager:  h.newPager(r, res.Page, res.Total, res.PageSize),
		},
	}, nil)
}
