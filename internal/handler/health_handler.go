package handler

import "net/http"

// Banner is the body of GET /.
type Banner struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Root handles GET / with a short service description.
func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Banner{
		Message:   "Jewelry API is running",
		Endpoints: []string{"/health", "/orders"},
	})
}
