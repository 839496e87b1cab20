package server

import (
	"net/http"

	"github.com/matzehuels/slotcraft/pkg/core/element"
	"github.com/matzehuels/slotcraft/pkg/core/engine"
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/placement"
	"github.com/matzehuels/slotcraft/pkg/errors"
	"github.com/matzehuels/slotcraft/pkg/pipeline"
)

func cacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
}

func (s *Server) handleArrange(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, hit, err := s.runner.Arrange(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cacheHeader(w, hit)
	ok(w, r, res)
}

type batchRequest struct {
	Requests []pipeline.Request `json:"requests"`
}

type batchResponse struct {
	Items []pipeline.BatchItem `json:"items"`
}

func (s *Server) handleArrangeBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.runner.ArrangeBatch(r.Context(), req.Requests)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, r, batchResponse{Items: items})
}

type suggestRequest struct {
	Assets []media.Asset `json:"assets"`
	pipeline.SuggestOptions
}

type suggestResponse struct {
	Suggestions []pipeline.Suggestion `json:"suggestions"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, hit, err := s.runner.Suggest(r.Context(), req.Assets, req.SuggestOptions)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cacheHeader(w, hit)
	ok(w, r, suggestResponse{Suggestions: out})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var applied placement.AppliedTemplate
	if err := decode(r, &applied); err != nil {
		s.writeError(w, r, err)
		return
	}
	ok(w, r, engine.Status(applied))
}

type toElementsRequest struct {
	Placements   []placement.AssetPlacement `json:"placements"`
	CanvasWidth  float64                    `json:"canvasWidth"`
	CanvasHeight float64                    `json:"canvasHeight"`
}

type elementsResponse struct {
	Elements []element.ImageElement `json:"elements"`
}

func (s *Server) handleToElements(w http.ResponseWriter, r *http.Request) {
	var req toElementsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.CanvasWidth <= 0 || req.CanvasHeight <= 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "canvasWidth and canvasHeight must be positive"))
		return
	}
	ok(w, r, elementsResponse{Elements: element.FromPlacements(req.Placements, req.CanvasWidth, req.CanvasHeight)})
}

// toPlacementsRequest converts elements back. Without a canvas size the
// element geometry is copied as is; with one it is converted to percent.
type toPlacementsRequest struct {
	Elements     []element.ImageElement `json:"elements"`
	Assets       []media.Asset          `json:"assets"`
	CanvasWidth  float64                `json:"canvasWidth,omitempty"`
	CanvasHeight float64                `json:"canvasHeight,omitempty"`
}

type placementsResponse struct {
	Placements []placement.AssetPlacement `json:"placements"`
}

func (s *Server) handleToPlacements(w http.ResponseWriter, r *http.Request) {
	var req toPlacementsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var ps []placement.AssetPlacement
	if req.CanvasWidth > 0 && req.CanvasHeight > 0 {
		ps = element.ToPlacementsOnCanvas(req.Elements, req.Assets, req.CanvasWidth, req.CanvasHeight)
	} else {
		ps = element.ToPlacements(req.Elements, req.Assets)
	}
	ok(w, r, placementsResponse{Placements: ps})
}
