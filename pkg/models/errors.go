package models

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMesh is returned when a file parses but yields no triangles.
	ErrEmptyMesh = errors.New("mesh has no triangles")
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
)

// LoadError describes a mesh file that could not be loaded.
type LoadError struct {
	Path string
	Op   string // open, parse, read
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
