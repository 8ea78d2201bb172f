package breadcrumbs

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Crumb struct {
	Label   string
	Href    string
	Current bool
}

// Build turns a URL path into cumulative crumbs starting at "/". Labels are
// looked up by crumb href; unknown segments are humanised.
func Build(path string, labels map[string]string) []Crumb {
	rootLabel := "Home"
	if l, ok := labels["/"]; ok {
		rootLabel = l
	}

	crumbs := []Crumb{{Label: rootLabel, Href: "/"}}

	href := ""

	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}

		href += "/" + seg

		label, ok := labels[href]
		if !ok {
			label = humanize(seg)
		}

		crumbs = append(crumbs, Crumb{Label: label, Href: href})
	}

	crumbs[len(crumbs)-1].Current = true

	return crumbs
}

func humanize(seg string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(seg)

	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}
