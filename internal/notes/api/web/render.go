package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/services/validate"
	"github.com/Leopold1975/notes_app/internal/pkg/breadcrumbs"
	"github.com/Leopold1975/notes_app/internal/pkg/pagination"
)

//go:embed templates/*.html
var templatesFS embed.FS

const baseTemplate = "templates/base.html"

var crumbLabels = map[string]string{
	"/notes":            "Notes",
	"/notes/new":        "New note",
	"/settings":         "Settings",
	"/settings/profile": "Profile",
	"/admin":            "Admin",
	"/admin/users":      "Users",
	"/users":            "Users",
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
}

type pageData struct {
	Title   string
	User    *models.User
	Theme   Theme
	Toasts  []Toast
	Crumbs  []breadcrumbs.Crumb
	Path    string
	SiteKey string
	Errors  validate.Errors
	Form    map[string]string
	Data    any
}

type errorPage struct {
	Status  int
	Message string
}

type pageLink struct {
	pagination.Item
	Href string
}

type pager struct {
	Links      []pageLink
	Current    int
	TotalPages int
	Total      int
}

// parsePages builds one template set per page, each layered on the base
// layout.
func parsePages() (map[string]*template.Template, error) {
	base, err := template.New("base.html").Funcs(funcs).ParseFS(templatesFS, baseTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse base error: %w", err)
	}

	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates error: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))

	for _, f := range files {
		if f == baseTemplate {
			continue
		}

		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base error: %w", err)
		}

		if _, err := t.ParseFS(templatesFS, f); err != nil {
			return nil, fmt.Errorf("parse %s error: %w", f, err)
		}

		pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}

	return pages, nil
}

// render executes page into a buffer first so a template failure still
// produces a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, pd pageData,
	labels map[string]string,
) {
	t, ok := h.pages[page]
	if !ok {
		h.lg.Error("unknown page", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	if u, ok := userFrom(r.Context()); ok {
		pd.User = &u
	}

	toasts, err := h.sessions.PopToasts(w, r)
	if err != nil {
		h.lg.Error("pop toasts error", "error", err)
	}

	all := maps.Clone(crumbLabels)
	maps.Copy(all, labels)

	pd.Toasts = toasts
	pd.Theme = h.themes.Get(r)
	pd.Path = r.URL.RequestURI()
	pd.Crumbs = breadcrumbs.Build(r.URL.Path, all)

	if pd.SiteKey == "" && h.svc.Captcha != nil {
		pd.SiteKey = h.svc.Captcha.SiteKey()
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", pd); err != nil {
		h.lg.Error("execute template error", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if _, err := buf.WriteTo(w); err != nil {
		h.lg.Error("write response error", "error", err)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int) {
	h.render(w, r, status, "error", pageData{ //nolint:exhaustruct
		Title: http.StatusText(status),
		Data:  errorPage{Status: status, Message: errorMessage(status)},
	}, nil)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.lg.Error("request error", "method", r.Method, "uri", r.URL.RequestURI(), "error", err)
	h.renderError(w, r, http.StatusInternalServerError)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound)
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusMethodNotAllowed)
}

func errorMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "The request could not be understood."
	case http.StatusForbidden:
		return "You are not allowed to do that."
	case http.StatusNotFound:
		return "We can't find this page."
	default:
		return "Something went wrong on our end."
	}
}

func (h *Handler) toast(w http.ResponseWriter, r *http.Request, t Toast) {
	if err := h.sessions.AddToast(w, r, t); err != nil {
		h.lg.Error("add toast error", "error", err)
	}
}

// newPager turns a page of results into links that keep the other query
// parameters of r.
func (h *Handler) newPager(r *http.Request, page, total, pageSize int) pager {
	p := pagination.New(pagination.Params{
		Page:          page,
		Total:         total,
		PageSize:      pageSize,
		SiblingCount:  h.pagination.SiblingCount,
		BoundaryCount: h.pagination.BoundaryCount,
	})

	links := make([]pageLink, 0, len(p.Items))

	for _, it := range p.Items {
		l := pageLink{Item: it}

		if !it.IsEllipsis() && !it.Disabled && !it.Selected {
			q := url.Values{}
			maps.Copy(q, r.URL.Query())
			q.Set("page", strconv.Itoa(it.Page))
			l.Href = r.URL.Path + "?" + q.Encode()
		}

		links = append(links, l)
	}

	return pager{
		Links:      links,
		Current:    p.Current,
		TotalPages: p.TotalPages,
		Total:      p.Total,
	}
}
