package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/slotcraft/pkg/core/element"
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/placement"
	"github.com/matzehuels/slotcraft/pkg/errors"
)

// Stdin is read by the Import helpers when the path is "-".
var Stdin io.Reader = os.Stdin

// readList decodes r as either a JSON array or an object holding the array
// under key.
func readList[T any](r io.Reader, key string) ([]T, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty %s document", key)
	}

	out := []T{}
	if data[0] == '[' {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", key)
		}
		return out, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", key)
	}
	raw, ok := wrapped[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing %q array", key)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", key)
	}
	return out, nil
}

// ReadAssets decodes and validates an asset list.
func ReadAssets(r io.Reader) ([]media.Asset, error) {
	assets, err := readList[media.Asset](r, "assets")
	if err != nil {
		return nil, err
	}
	for i, a := range assets {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("asset %d: %w", i, err)
		}
	}
	return assets, nil
}

// ReadElements decodes a canvas element list.
func ReadElements(r io.Reader) ([]element.ImageElement, error) {
	return readList[element.ImageElement](r, "elements")
}

// ReadPlacements decodes a placement list.
func ReadPlacements(r io.Reader) ([]placement.AssetPlacement, error) {
	return readList[placement.AssetPlacement](r, "placements")
}

// ReadAssignment decodes a slot id to asset id map.
func ReadAssignment(r io.Reader) (map[string]string, error) {
	var m map[string]string
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode assignment")
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

// ImportAssets reads an asset file at path.
func ImportAssets(path string) ([]media.Asset, error) {
	return importFile(path, ReadAssets)
}

// ImportElements reads an element file at path.
func ImportElements(path string) ([]element.ImageElement, error) {
	return importFile(path, ReadElements)
}

// ImportPlacements reads a placement file at path.
func ImportPlacements(path string) ([]placement.AssetPlacement, error) {
	return importFile(path, ReadPlacements)
}

// ImportAssignment reads an assignment file at path.
func ImportAssignment(path string) (map[string]string, error) {
	return importFile(path, ReadAssignment)
}

func importFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	if path == "-" {
		v, err := read(Stdin)
		if err != nil {
			return zero, fmt.Errorf("stdin: %w", err)
		}
		return v, nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return zero, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
