// AngelaMos | 2026
// handler.go

package theme

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/slidecraft/internal/core"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}

// List returns the theme catalogue. Public, no auth required.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	core.OK(w, map[string]any{
		"themes": All(),
	})
}
