// Package export writes an adapted mesh.Mesh to common interchange
// formats: CalculiX/ABAQUS `inp`, 3MF, DXF, and a quality-colored 2D
// raster/SVG preview. The writers walk the mesh's entity arrays
// directly; there is no sampling or remeshing on the way out.
package export

import (
	"fmt"
	"os"
	"time"

	"github.com/deadsy/meshadapt/mesh"
)

// Inp writes a 2D (TRI) or 3D (TET) mesh as a CalculiX/ABAQUS `inp`
// deck. Node IDs and element IDs are 1-based per the format. Only
// geometry is written: this engine carries no material, boundary or
// load state, so there is no *MATERIAL / *BOUNDARY / *STEP section,
// only *NODE and *ELEMENT.
type Inp struct {
	Mesh *mesh.Mesh
	Path string

	// ElsetTag, if non-empty, names an element-dim tag (e.g. "quality")
	// whose value is written as a comment above the element that
	// follows it.
	ElsetTag string
}

// NewInp sets up a writer for m; Write does the I/O.
func NewInp(m *mesh.Mesh, path string) *Inp {
	return &Inp{Mesh: m, Path: path}
}

// Write emits the deck to inp.Path.
func (inp *Inp) Write() error {
	f, err := os.Create(inp.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := inp.writeHeader(f); err != nil {
		return err
	}
	if err := inp.writeNodes(f); err != nil {
		return err
	}
	return inp.writeElements(f)
}

func (inp *Inp) writeHeader(f *os.File) error {
	_, err := f.WriteString("**\n** Structure: adapted unstructured mesh.\n** Generated by: github.com/deadsy/meshadapt\n**\n")
	if err != nil {
		return err
	}
	_, err = f.WriteString("*HEADING\nModel: adapted mesh Date: " + time.Now().UTC().Format("2006-Jan-02 MST") + "\n")
	return err
}

func (inp *Inp) writeNodes(f *os.File) error {
	if _, err := f.WriteString("*NODE\n"); err != nil {
		return err
	}
	m := inp.Mesh
	coords := m.Coords()
	d := m.Dim()
	n := m.Nents(mesh.VERT)
	for i := 0; i < n; i++ {
		x := coords[i*d]
		y := coords[i*d+1]
		z := 0.0
		if d == 3 {
			z = coords[i*d+2]
		}
		if _, err := fmt.Fprintf(f, "%d,%f,%f,%f\n", i+1, x, y, z); err != nil {
			return err
		}
	}
	return nil
}

func (inp *Inp) writeElements(f *os.File) error {
	m := inp.Mesh
	switch m.Dim() {
	case 2:
		if _, err := f.WriteString("*ELEMENT, TYPE=CPS3, ELSET=eTRI\n"); err != nil {
			return err
		}
		return inp.writeSimplices(f, mesh.TRI, 3)
	case 3:
		if _, err := f.WriteString("*ELEMENT, TYPE=C3D4, ELSET=eTET\n"); err != nil {
			return err
		}
		return inp.writeSimplices(f, mesh.TET, 4)
	default:
		return mesh.Fatalf("export.Inp.writeElements", "unsupported mesh dim %d", m.Dim())
	}
}

func (inp *Inp) writeSimplices(f *os.File, dim, width int) error {
	m := inp.Mesh
	verts := m.VertsOf(dim)
	n := m.Nents(dim)

	var qual *mesh.Tag
	if inp.ElsetTag != "" && m.HasTag(dim, inp.ElsetTag) {
		qual, _ = m.GetTag(dim, inp.ElsetTag)
	}

	for i := 0; i < n; i++ {
		if qual != nil {
			if _, err := fmt.Fprintf(f, "** %s=%f\n", inp.ElsetTag, qual.F64[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(f, "%d", i+1); err != nil {
			return err
		}
		base := i * width
		for k := 0; k < width; k++ {
			if _, err := fmt.Fprintf(f, ",%d", verts[base+k]+1); err != nil {
				return err
			}
		}
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	return nil
}
