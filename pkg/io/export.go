package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/quilt/pkg/errors"
	"github.com/matzehuels/quilt/pkg/quilt"
)

// WriteJSON encodes a document as indented JSON. The output can be read
// back with [ReadJSON].
func WriteJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML encodes a document as TOML. The output can be read back with
// [ReadTOML].
func WriteTOML(d *Document, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalLayout encodes a layout as indented JSON.
func MarshalLayout(l quilt.Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout decodes a layout produced by [MarshalLayout].
func UnmarshalLayout(data []byte) (quilt.Layout, error) {
	return ReadLayout(bytes.NewReader(data))
}

// WriteLayout encodes a layout as indented JSON and writes it to w.
func WriteLayout(l quilt.Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}

// ReadLayout decodes a JSON layout from r.
func ReadLayout(r io.Reader) (quilt.Layout, error) {
	var l quilt.Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return quilt.Layout{}, decodeError(err, "decode layout")
	}
	if l.CellSize.Width <= 0 || l.CellSize.Height <= 0 {
		return quilt.Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout has no cell size")
	}
	return l, nil
}

// ExportLayout writes a layout to a JSON file at path.
func ExportLayout(l quilt.Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLayout(l, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportLayout reads a JSON layout file.
func ImportLayout(path string) (quilt.Layout, error) {
	f, err := open(path)
	if err != nil {
		return quilt.Layout{}, err
	}
	defer f.Close()
	return ReadLayout(f)
}
