package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/slotcraft/pkg/core/template"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

// catalogFile is the on-disk layout of a catalog file:
//
//	[[templates]]
//	id = "quote-card"
//	name = "Quote Card"
//	category = "social"
//	target_canvas = ["instagram-post"]
//	color_scheme = "muted"
//
//	[[templates.slots]]
//	id = "portrait"
//	accepted_types = ["avatar", "photo"]
//	required = true
//	position = { x = 50, y = 40 }
//	size = { width = 40, height = 40 }
//	default_opacity = 100
//	auto_fit = "cover"
type catalogFile struct {
	Templates []template.Template `toml:"templates"`
}

// Decode reads templates from TOML. Unknown keys and unknown enum values are
// errors. When strict is set, templates that fail [template.Validate] are
// rejected too.
func Decode(r io.Reader, strict bool) ([]template.Template, error) {
	var f catalogFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode catalog")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown catalog keys: %s", strings.Join(keys, ", "))
	}

	if strict {
		for _, t := range f.Templates {
			if err := template.Validate(t).Err(); err != nil {
				return nil, fmt.Errorf("template %s: %w", t.ID, err)
			}
		}
	}
	return f.Templates, nil
}

// LoadFile reads templates from a TOML catalog file.
func LoadFile(path string, strict bool) ([]template.Template, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	ts, err := Decode(bytes.NewReader(data), strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}

// Load extends base with the templates in each file, in order.
func Load(base *Catalog, strict bool, paths ...string) (*Catalog, error) {
	c := base
	for _, p := range paths {
		ts, err := LoadFile(p, strict)
		if err != nil {
			return nil, err
		}
		if c, err = c.Extend(ts...); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return c, nil
}

// Encode writes templates as a TOML catalog file.
func Encode(w io.Writer, ts []template.Template) error {
	return toml.NewEncoder(w).Encode(catalogFile{Templates: ts})
}
