package diagram

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/poolkit/pkg/errors"
	"github.com/matzehuels/poolkit/pkg/pool"
)

// Write encodes doc to w. JSON output is indented.
func Write(w io.Writer, doc *Document, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported document format %q", f)
	}
	return nil
}

// WriteFile writes doc to path in the format implied by its extension.
func WriteFile(path string, doc *Document) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return Write(out, doc, f)
}

// MarshalLayout encodes a computed layout as indented JSON.
func MarshalLayout(l pool.Layout) ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return data, nil
}

// UnmarshalLayout decodes a layout written by [MarshalLayout].
func UnmarshalLayout(data []byte) (pool.Layout, error) {
	var l pool.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return pool.Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return l, nil
}

// WriteLayoutFile writes a layout as JSON to path.
func WriteLayoutFile(path string, l pool.Layout) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadLayoutFile reads a layout written by [WriteLayoutFile].
func ReadLayoutFile(path string) (pool.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pool.Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return pool.Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
