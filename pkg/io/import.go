package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/quilt/pkg/errors"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf picks the document format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported document type %q (want .json or .toml)", filepath.Ext(path))
}

// Read decodes and normalizes a document in the given format.
func Read(r io.Reader, f Format) (*Document, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported document format %q", f)
}

// ReadJSON decodes a JSON document from r and normalizes it.
//
// Unknown fields are rejected so that typos do not silently fall back to
// defaults. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var d Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, decodeError(err, "decode json")
	}
	if err := d.Normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadTOML decodes a TOML document from r and normalizes it.
func ReadTOML(r io.Reader) (*Document, error) {
	var d Document
	meta, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return nil, decodeError(err, "decode toml")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidDocument, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := d.Normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

// decodeError keeps a structured cause (for instance an invalid direction
// reported through UnmarshalText) and classifies everything else as a
// malformed document.
func decodeError(err error, what string) error {
	if code := errors.GetCode(err); code != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidDocument, err, "%s", what)
}

// Import reads the document at path, choosing the format by extension.
func Import(path string) (*Document, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	doc, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ImportJSON reads a JSON document from path.
func ImportJSON(path string) (*Document, error) {
	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadJSON(file)
}

// ImportTOML reads a TOML document from path.
func ImportTOML(path string) (*Document, error) {
	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadTOML(file)
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	return f, nil
}
