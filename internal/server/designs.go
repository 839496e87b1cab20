package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/slotcraft/pkg/core/element"
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/design"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

type designList struct {
	Designs []design.Design `json:"designs"`
}

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.List(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ds == nil {
		ds = []design.Design{}
	}
	ok(w, r, designList{Designs: ds})
}

// checkTemplate rejects designs whose template is not in the catalog.
func (s *Server) checkTemplate(d *design.Design) error {
	if !s.runner.Catalog.Has(d.TemplateID) {
		return errors.New(errors.ErrCodeTemplateNotFound, "template %q not found", d.TemplateID)
	}
	return nil
}

func (s *Server) handleCreateDesign(w http.ResponseWriter, r *http.Request) {
	var d design.Design
	if err := decode(r, &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	d.ID = ""
	d.Owner = ownerFrom(r.Context())
	d.CreatedAt, d.UpdatedAt = time.Time{}, time.Time{}
	if err := s.checkTemplate(&d); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("design created", "owner", d.Owner, "id", d.ID, "template", d.TemplateID)
	created(w, r, d)
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "designID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, r, d)
}

// handleUpdateDesign replaces an existing design. Creation goes through
// POST so ids are always server-assigned.
func (s *Server) handleUpdateDesign(w http.ResponseWriter, r *http.Request) {
	owner, id := ownerFrom(r.Context()), chi.URLParam(r, "designID")
	prev, err := s.store.Get(r.Context(), owner, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var d design.Design
	if err := decode(r, &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	d.ID, d.Owner, d.CreatedAt = id, owner, prev.CreatedAt
	if err := s.checkTemplate(&d); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), &d); err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, r, d)
}

func (s *Server) handleDeleteDesign(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "designID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// saveElementsRequest carries an editor's canvas state back into a design.
type saveElementsRequest struct {
	Elements []element.ImageElement `json:"elements"`
	Assets   []media.Asset          `json:"assets"`
}

// handleSaveElements converts pixel elements to placements on the design's
// canvas and saves them. Elements whose asset is missing are dropped.
func (s *Server) handleSaveElements(w http.ResponseWriter, r *http.Request) {
	owner, id := ownerFrom(r.Context()), chi.URLParam(r, "designID")
	d, err := s.store.Get(r.Context(), owner, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req saveElementsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if d.Canvas.Width <= 0 || d.Canvas.Height <= 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "design %s has no canvas size", id))
		return
	}

	d.Placements = element.ToPlacementsOnCanvas(req.Elements, req.Assets, d.Canvas.Width, d.Canvas.Height)
	if err := s.store.Save(r.Context(), d); err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, r, d)
}

func (s *Server) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), ownerFrom(r.Context()), chi.URLParam(r, "designID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rv, err := design.Revalidate(*d, s.runner.Catalog)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, r, rv)
}
