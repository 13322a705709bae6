package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/docgloss/internal/annotate"
	"github.com/dgallion1/docgloss/internal/footnote"
)

type annotateRequest struct {
	HTML      string       `json:"html"`
	PageID    string       `json:"page_id"`
	Footnotes footnote.Set `json:"footnotes"`
}

type annotateResponse struct {
	HTML        string                `json:"html"`
	Annotations []annotate.Annotation `json:"annotations"`
	Citations   int                   `json:"citations"`
	footnote.Partition
}

// handleAnnotate runs an ad-hoc fragment through citation injection,
// annotation and footnote partitioning, as a page render would.
func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req annotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.HTML == "" {
		jsonError(w, "html is required", http.StatusBadRequest)
		return
	}

	body, citations := footnote.Inject(req.HTML, req.Footnotes)
	res, err := s.renderer.Annotate(body, req.PageID)
	if err != nil {
		jsonError(w, "annotate: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, annotateResponse{
		HTML:        res.HTML,
		Annotations: res.Annotations,
		Citations:   citations,
		Partition:   footnote.Resolve(req.Footnotes, res.HTML),
	})
}
