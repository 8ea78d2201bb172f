package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leopold1975/notes_app/internal/notes/services/validate"
)

type Error struct {
	Err    string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		se.Err = err.Error()
		se.Fields = nil

		b, err := json.Marshal(se)
		if err != nil {
			return []byte(`{"error": "marshal error"}`)
		}

		return b
	}

	return b
}

func handleError(w http.ResponseWriter, err error, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	e := Error{Err: err.Error()} //nolint:exhaustruct

	var verrs validate.Errors
	if errors.As(err, &verrs) {
		e.Err = validate.ErrValidation.Error()
		e.Fields = verrs
	}

	w.Write(e.ToJSON()) //nolint:errcheck
}
