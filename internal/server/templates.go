package server

import (
	_ "embed"
	"net/http"
)

//go:embed ui.html
var uiHTML []byte

// handleIndex serves the embedded single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(uiHTML)
}
