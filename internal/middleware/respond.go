package middleware

import (
	"net/http"

	"github.com/go-chi/render"
)

// errorBody is the JSON shape of every error the middleware writes.
type errorBody struct {
	Error    string   `json:"error"`
	Required []string `json:"required,omitempty"`
	Current  string   `json:"current,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, body errorBody) {
	render.Status(r, status)
	render.JSON(w, r, body)
}
