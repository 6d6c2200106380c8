package httpx

import (
	"net/http"

	"github.com/target/fraudwatch-ui-api/internal/domain/nav"
)

// NavigationHandlers serves the permission-filtered navigation tree.
type NavigationHandlers struct{}

// Menu returns the menu sections visible to the current session.
// GET /api/navigation.
//
// The filter runs against the session's resolved capability set, so an
// anonymous session receives only entries with no required permission.
func (h *NavigationHandlers) Menu(w http.ResponseWriter, r *http.Request) {
	session, _ := GetSessionFromContext(r.Context())
	sections := nav.Filter(nav.DefaultMenu(), session.Permissions())
	WriteJSON(w, http.StatusOK, map[string]any{"sections": sections})
}
