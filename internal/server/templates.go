package server

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/slotcraft/pkg/core/catalog"
	"github.com/matzehuels/slotcraft/pkg/core/engine"
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/template"
)

// templateList is the reply of GET /templates.
type templateList struct {
	Templates []template.Template `json:"templates"`
	Total     int                 `json:"total"`
}

// parseQuery reads catalog filters from the query string.
func parseQuery(r *http.Request) (catalog.Query, error) {
	v := r.URL.Query()
	var q catalog.Query
	var err error
	if s := v.Get("canvasType"); s != "" {
		if q.CanvasType, err = template.ParseCanvasType(s); err != nil {
			return q, err
		}
	}
	if s := v.Get("category"); s != "" {
		if q.Category, err = template.ParseCategory(s); err != nil {
			return q, err
		}
	}
	if q.Premium, err = catalog.ParsePremiumMode(v.Get("premium")); err != nil {
		return q, err
	}
	q.Text = v.Get("q")
	return q, nil
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ts := s.runner.Catalog.Query(q)
	ok(w, r, templateList{Templates: ts, Total: len(ts)})
}

func (s *Server) template(r *http.Request) (template.Template, error) {
	return s.runner.Catalog.Get(chi.URLParam(r, "templateID"))
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.template(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, r, t)
}

func (s *Server) handleValidateTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.template(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, r, template.Validate(t))
}

// slotRequest is the body of the match and assign routes. Assets are the
// assets already placed; assignment pairs naming any other asset are dropped.
type slotRequest struct {
	Asset      media.Asset       `json:"asset"`
	Assets     []media.Asset     `json:"assets"`
	Assignment map[string]string `json:"assignment"`
}

// current resolves the request's assignment against t.
func (req slotRequest) current(t template.Template) engine.SlotAssignment {
	pool := append(slices.Clone(req.Assets), req.Asset)
	return engine.NewAssignment(t, req.Assignment, pool)
}

type matchResponse struct {
	SlotID string `json:"slotId"`
}

type assignResponse struct {
	SlotID     string                `json:"slotId"`
	Assignment engine.SlotAssignment `json:"assignment"`
}

func (s *Server) readSlotRequest(r *http.Request) (template.Template, slotRequest, error) {
	t, err := s.template(r)
	if err != nil {
		return t, slotRequest{}, err
	}
	var req slotRequest
	if err := decode(r, &req); err != nil {
		return t, req, err
	}
	if err := req.Asset.Validate(); err != nil {
		return t, req, err
	}
	for _, a := range req.Assets {
		if err := a.Validate(); err != nil {
			return t, req, err
		}
	}
	return t, req, nil
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	t, req, err := s.readSlotRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	slotID, err := engine.FindBestSlot(t, req.Asset, req.current(t))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, r, matchResponse{SlotID: slotID})
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	t, req, err := s.readSlotRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	next, slotID, err := engine.AssignAsset(t, req.Asset, req.current(t))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, r, assignResponse{SlotID: slotID, Assignment: next})
}
