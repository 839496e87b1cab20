// Package catalog holds the set of templates available for selection and
// the query functions that drive template pickers.
//
// A [Catalog] is an immutable value built once and passed to whoever needs
// it. Every accessor returns deep copies, so a catalog may be shared across
// goroutines without locking.
//
//	cat := catalog.Builtin()
//	ts := cat.Query(catalog.Query{
//	    CanvasType: template.CanvasInstagramPost,
//	    Text:       "product",
//	})
//
// Extra templates can be loaded from TOML files with [LoadFile] and merged
// with [Catalog.Extend].
package catalog

import (
	"github.com/matzehuels/slotcraft/pkg/core/template"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

// Catalog is an ordered, immutable set of templates keyed by id.
type Catalog struct {
	templates []template.Template
	index     map[string]int
}

// New builds a catalog from templates in the given order. Template ids must
// be valid and unique.
func New(templates ...template.Template) (*Catalog, error) {
	c := &Catalog{
		templates: make([]template.Template, 0, len(templates)),
		index:     make(map[string]int, len(templates)),
	}
	if err := c.add(templates); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew is like New but panics on error. Use it for compiled-in data.
func MustNew(templates ...template.Template) *Catalog {
	c, err := New(templates...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) add(templates []template.Template) error {
	for _, t := range templates {
		if err := errors.ValidateID("template", t.ID); err != nil {
			return err
		}
		if _, dup := c.index[t.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate template id %q", t.ID)
		}
		c.index[t.ID] = len(c.templates)
		c.templates = append(c.templates, t.Clone())
	}
	return nil
}

// Extend returns a new catalog with templates appended. The receiver is
// unchanged.
func (c *Catalog) Extend(templates ...template.Template) (*Catalog, error) {
	return New(append(c.All(), templates...)...)
}

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.templates) }

// Get returns the template with the given id, or a TEMPLATE_NOT_FOUND error.
func (c *Catalog) Get(id string) (template.Template, error) {
	i, ok := c.index[id]
	if !ok {
		return template.Template{}, errors.New(errors.ErrCodeTemplateNotFound, "template %q not found", id)
	}
	return c.templates[i].Clone(), nil
}

// Has reports whether the catalog contains id.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// All returns every template in catalog order.
func (c *Catalog) All() []template.Template {
	out := make([]template.Template, len(c.templates))
	for i, t := range c.templates {
		out[i] = t.Clone()
	}
	return out
}

// IDs returns every template id in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.templates))
	for i, t := range c.templates {
		ids[i] = t.ID
	}
	return ids
}

// ByCategory returns the templates in category cat.
func (c *Catalog) ByCategory(cat template.Category) []template.Template {
	return FilterByCategory(c.All(), cat)
}

// Query returns the templates matching q. See [Query] for the order in
// which filters apply.
func (c *Catalog) Query(q Query) []template.Template {
	return q.Apply(c.All())
}
