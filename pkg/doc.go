// Package pkg provides the core libraries for slotcraft template arrangement.
//
// # Overview
//
// slotcraft fills design templates with user media. A template declares
// slots (rectangles in percent space, each accepting some asset types); the
// engine assigns assets to slots and produces placements that an editor can
// draw. The pkg directory is organized into four areas:
//
//  1. [core] - Domain logic (templates, matching, placements, conversion)
//  2. [pipeline] - Orchestration with caching, used by CLI and API
//  3. [design] - Persistence of saved arrangements
//  4. [cache], [observability], [errors], [io] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Catalog (built-in + TOML files)
//	         ↓
//	    [core/catalog] package (query by canvas, category, premium, text)
//	         ↓
//	    [core/engine] package (FindBestSlot, AutoAssign, Apply, Status)
//	         ↓
//	    [core/placement] placements in percent space
//	         ↓
//	    [core/element] canvas elements in pixel space
//
// # Quick Start
//
// Arrange assets into a built-in template:
//
//	import (
//	    "github.com/matzehuels/slotcraft/pkg/core/catalog"
//	    "github.com/matzehuels/slotcraft/pkg/core/element"
//	    "github.com/matzehuels/slotcraft/pkg/core/engine"
//	)
//
//	// 1. Pick a template
//	tmpl, _ := catalog.Builtin().Get("product-spotlight")
//
//	// 2. Fill its slots
//	a := engine.AutoAssign(tmpl, assets)
//
//	// 3. Build placements and check completeness
//	applied := engine.Apply(tmpl, a, assets)
//	status := engine.Status(applied)
//
//	// 4. Convert to pixel-space elements for a 1080x1080 canvas
//	elements := element.FromPlacements(applied.Placements, 1080, 1080)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/media] - Asset types and the Asset record.
//
// [core/template] - Templates, slots, closed enums (category, color scheme,
// auto-fit, canvas type) and structural validation.
//
// [core/catalog] - Immutable template catalog with filtering and search,
// the built-in templates and TOML catalog files.
//
// [core/engine] - Slot matching. Greedy by design: required slots first,
// larger slots before smaller ones, first asset that fits wins.
//
// [core/placement] - Placement records in percent space.
//
// [core/element] - Conversion between placements and pixel-space elements.
//
// ## Infrastructure
//
// [pipeline] - Arrange, batch arrange and suggest, with result caching.
//
// [design] - Saved designs with memory, file, SQLite, Redis, MongoDB and S3
// backends.
//
// [cache] - Byte caches (file, memory, Redis) and deterministic key builders.
//
// [observability] - Hook registry; [observability/prom] exports Prometheus
// metrics from it.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/engine/...        # Specific package
//	go test -run Example                 # Examples only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/core
// [core/media]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/core/media
// [core/template]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/core/template
// [core/catalog]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/core/catalog
// [core/engine]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/core/engine
// [core/placement]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/core/placement
// [core/element]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/core/element
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/pipeline
// [design]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/design
// [cache]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/slotcraft/pkg/io
package pkg
