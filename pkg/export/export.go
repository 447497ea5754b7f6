// Package export writes the closure of a topology model to mesher input
// formats. Writers only read the model; they never mutate it.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/brep/pkg/topo"
)

// Format selects an output format.
type Format int

const (
	FormatGeo Format = iota // Gmsh .geo script
	FormatDmg               // discrete model (.dmg) topology
)

func (f Format) String() string {
	switch f {
	case FormatGeo:
		return "geo"
	case FormatDmg:
		return "dmg"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the file extension of the format, including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat parses a format name ("geo" or "dmg", any case, optional
// leading dot).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "geo":
		return FormatGeo, nil
	case "dmg":
		return FormatDmg, nil
	default:
		return 0, fmt.Errorf("export: unknown format %q (want geo or dmg)", s)
	}
}

// GeoOptions controls .geo output.
type GeoOptions struct {
	// Physical appends a physical group per cell so that the mesher keeps
	// every entity's identity.
	Physical bool
}

// Write writes the closure of root in the given format.
func Write(w io.Writer, m *topo.Model, root topo.ID, format Format, opts GeoOptions) error {
	switch format {
	case FormatGeo:
		return WriteGeo(w, m, root, opts)
	case FormatDmg:
		return WriteDmg(w, m, root)
	default:
		return fmt.Errorf("export: unsupported format %v", format)
	}
}

// WriteFile writes the closure of root to path, creating or truncating it.
func WriteFile(path string, m *topo.Model, root topo.ID, format Format, opts GeoOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := Write(f, m, root, format, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	topo.Logger().Debug("wrote model", "path", path, "format", format, "root", root)
	return nil
}

func checkRoot(m *topo.Model, root topo.ID) error {
	if m.Entity(root) == nil {
		return fmt.Errorf("export: root %d: %w", root, topo.ErrNotFound)
	}
	return nil
}

// edgeEnds returns the two endpoints of an edge, or an error when the edge
// is malformed.
func edgeEnds(m *topo.Model, e *topo.Entity) (topo.ID, topo.ID, error) {
	if len(e.Used) != 2 {
		return 0, 0, fmt.Errorf("export: %s %d has %d endpoints: %w", e.Kind, e.ID, len(e.Used), topo.ErrPrecondition)
	}
	return e.Used[0].Ref, e.Used[1].Ref, nil
}
