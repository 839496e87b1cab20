package cache

import "time"

// Default TTLs for cached results.
const (
	ArrangementTTL = 24 * time.Hour
	SuggestionTTL  = time.Hour
)

// Keyer builds cache keys for pipeline results.
type Keyer interface {
	// ArrangementKey identifies an arranged template.
	ArrangementKey(templateID string, opts ArrangementKeyOpts) string

	// SuggestionKey identifies a template ranking for an asset pool.
	SuggestionKey(opts SuggestionKeyOpts) string
}

// ArrangementKeyOpts holds every input that changes an arrangement.
type ArrangementKeyOpts struct {
	TemplateHash   string  `json:"template_hash"`
	AssetsHash     string  `json:"assets_hash"`
	AssignmentHash string  `json:"assignment_hash,omitempty"`
	Elements       bool    `json:"elements,omitempty"`
	CanvasType     string  `json:"canvas_type,omitempty"`
	CanvasWidth    float64 `json:"canvas_width,omitempty"`
	CanvasHeight   float64 `json:"canvas_height,omitempty"`
}

// SuggestionKeyOpts holds every input that changes a suggestion list.
type SuggestionKeyOpts struct {
	CatalogHash string `json:"catalog_hash"`
	AssetsHash  string `json:"assets_hash"`
	CanvasType  string `json:"canvas_type,omitempty"`
	Category    string `json:"category,omitempty"`
	Premium     string `json:"premium,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArrangementKey returns "arrange:<sha256>".
func (DefaultKeyer) ArrangementKey(templateID string, opts ArrangementKeyOpts) string {
	return hashKey("arrange", templateID, opts)
}

// SuggestionKey returns "suggest:<sha256>".
func (DefaultKeyer) SuggestionKey(opts SuggestionKeyOpts) string {
	return hashKey("suggest", opts)
}
