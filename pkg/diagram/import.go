package diagram

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/poolkit/pkg/errors"
)

// Format identifies a document encoding.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported document extension %q (want .json or .toml)", filepath.Ext(path))
	}
}

// ParseFormat validates a format name such as "json" or "toml".
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatTOML:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported document format %q", name)
	}
}

// Read decodes a document from r.
//
// Type mismatches inside the lane or milestone trees are STRUCTURAL errors.
// Unknown fields are rejected in JSON so that typos do not silently drop
// lanes. Read does not build the pool; call [Document.Pool] for that.
func Read(r io.Reader, f Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document")
	}
	return Decode(data, f)
}

// Decode decodes a document held in memory.
func Decode(data []byte, f Format) (*Document, error) {
	var doc Document
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, classifyJSON(err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, classifyTOML(err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", undecoded[0].String())
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported document format %q", f)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// classifyJSON maps decoding errors inside the lane or milestone trees to
// STRUCTURAL.
func classifyJSON(err error) error {
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		field := typeErr.Field
		if strings.HasPrefix(field, "lanes") || strings.HasPrefix(field, "milestones") {
			return errors.Wrap(errors.ErrCodeStructural, err, "malformed entry at %s", field)
		}
	}
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
}

// tomlTreeMismatch matches the key context BurntSushi/toml reports for type
// mismatches inside the lane or milestone trees.
var tomlTreeMismatch = regexp.MustCompile(`\(last key "(lanes|milestones)(\.[^"]*)?"\): (incompatible types|type mismatch)`)

// classifyTOML is the TOML counterpart of classifyJSON.
func classifyTOML(err error) error {
	if m := tomlTreeMismatch.FindStringSubmatch(err.Error()); m != nil {
		return errors.Wrap(errors.ErrCodeStructural, err, "malformed entry at %s%s", m[1], m[2])
	}
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
}

// ReadFile reads a document, choosing the format from the file extension.
func ReadFile(path string) (*Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	doc, err := Decode(data, f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return doc, nil
}
