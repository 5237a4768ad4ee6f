package io_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/quilt/pkg/io"
	"github.com/matzehuels/quilt/pkg/quilt"
)

func ExampleReadTOML() {
	doc, err := io.ReadTOML(strings.NewReader(`
viewport = { width = 300, height = 300 }

[[sections]]
name = "gallery"
items = [
  { id = "wide", width = 2 },
  { id = "tall", height = 2 },
  { id = "small" },
]
`))
	if err != nil {
		panic(err)
	}

	p, err := quilt.New(doc.Source(), doc.Config())
	if err != nil {
		panic(err)
	}
	for _, t := range p.Snapshot().Tiles {
		fmt.Printf("%s at %v\n", doc.Label(t.ID), t.Origin)
	}
	// Output:
	// wide at (0,0)
	// tall at (2,0)
	// small at (0,1)
}
