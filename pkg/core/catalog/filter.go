package catalog

import (
	"strings"

	"github.com/matzehuels/slotcraft/pkg/core/template"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

// PremiumMode selects templates by their premium flag.
type PremiumMode string

// Premium filter modes. The zero value keeps everything.
const (
	PremiumAny  PremiumMode = ""
	PremiumFree PremiumMode = "free"
	PremiumOnly PremiumMode = "premium"
)

// ParsePremiumMode converts s to a PremiumMode. "any" and "" both mean
// [PremiumAny].
func ParsePremiumMode(s string) (PremiumMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return PremiumAny, nil
	case "free":
		return PremiumFree, nil
	case "premium":
		return PremiumOnly, nil
	}
	return PremiumAny, errors.New(errors.ErrCodeInvalidEnum, "unknown premium mode %q", s)
}

// Query describes a template picker's filter state. Zero fields are not
// applied.
type Query struct {
	CanvasType template.CanvasType `json:"canvasType,omitempty"`
	Category   template.Category   `json:"category,omitempty"`
	Premium    PremiumMode         `json:"premium,omitempty"`
	Text       string              `json:"q,omitempty"`
}

// Apply filters ts by canvas type, then category, then premium flag, then
// text. The filters commute, but the fixed order keeps results stable.
func (q Query) Apply(ts []template.Template) []template.Template {
	if q.CanvasType != "" {
		ts = FilterByCanvasType(ts, q.CanvasType)
	}
	if q.Category != "" {
		ts = FilterByCategory(ts, q.Category)
	}
	ts = FilterPremium(ts, q.Premium)
	return Search(ts, q.Text)
}

// FilterByCategory keeps the templates in category c.
func FilterByCategory(ts []template.Template, c template.Category) []template.Template {
	return filter(ts, func(t *template.Template) bool { return t.Category == c })
}

// FilterByCanvasType keeps the templates whose target canvases include c.
func FilterByCanvasType(ts []template.Template, c template.CanvasType) []template.Template {
	return filter(ts, func(t *template.Template) bool { return t.SupportsCanvas(c) })
}

// FilterPremium keeps templates matching mode.
func FilterPremium(ts []template.Template, mode PremiumMode) []template.Template {
	switch mode {
	case PremiumFree:
		return filter(ts, func(t *template.Template) bool { return !t.IsPremium })
	case PremiumOnly:
		return filter(ts, func(t *template.Template) bool { return t.IsPremium })
	}
	return ts
}

// Search keeps templates whose name, description or any tag contains query,
// ignoring case. A blank query returns ts unchanged.
func Search(ts []template.Template, query string) []template.Template {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ts
	}
	return filter(ts, func(t *template.Template) bool {
		if strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			return true
		}
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})
}

func filter(ts []template.Template, keep func(*template.Template) bool) []template.Template {
	out := make([]template.Template, 0, len(ts))
	for i := range ts {
		if keep(&ts[i]) {
			out = append(out, ts[i])
		}
	}
	return out
}
