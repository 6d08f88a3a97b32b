package export

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/deadsy/meshadapt/mesh"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	svg "github.com/ajstarks/svgo"
	"github.com/llgcode/draw2d/draw2dimg"
	"golang.org/x/image/font/gofont/goregular"
)

// qualityColor maps a quality in [0,1] to a red(bad)-yellow-green(good)
// traffic-light ramp.
func qualityColor(q float64) (r, g, b uint8) {
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}
	if q < 0.5 {
		t := q / 0.5
		return 255, uint8(255 * t), 0
	}
	t := (q - 0.5) / 0.5
	return uint8(255 * (1 - t)), 255, 0
}

// WriteQualitySVG renders a 2D triangle mesh's "quality" element tag as
// a filled-triangle SVG, one polygon per element colored by quality.
// 3D meshes are rendered via their boundary surface (surfaceTriangles),
// the same flattening WriteDXF uses.
func WriteQualitySVG(m *mesh.Mesh, qualTag string, width, height int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeQualitySVG(m, qualTag, width, height, f)
}

func writeQualitySVG(m *mesh.Mesh, qualTag string, width, height int, w io.Writer) error {
	coords := m.Coords()
	minX, minY, maxX, maxY := boundsXY(m, coords)

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")

	sx := float64(width) / (maxX - minX + 1e-9)
	sy := float64(height) / (maxY - minY + 1e-9)
	proj := func(x, y float64) (int, int) {
		return int((x - minX) * sx), height - int((y-minY)*sy)
	}

	tris, err := surfaceTriangles(m)
	if err != nil {
		return err
	}
	elemDim := mesh.TRI
	if m.Dim() == 3 {
		elemDim = mesh.TET
	}
	qtag, hasQ := (*mesh.Tag)(nil), false
	if m.HasTag(elemDim, qualTag) {
		qtag, _ = m.GetTag(elemDim, qualTag)
		hasQ = true
	}

	for i, t := range tris {
		x := make([]int, 3)
		y := make([]int, 3)
		for k, v := range t {
			vx := coords[int(v)*m.Dim()]
			vy := coords[int(v)*m.Dim()+1]
			x[k], y[k] = proj(vx, vy)
		}
		q := 1.0
		if hasQ && i < len(qtag.F64) {
			q = qtag.F64[i]
		}
		r, g, b := qualityColor(q)
		canvas.Polygon(x, y, fmt.Sprintf("fill:rgb(%d,%d,%d);stroke:black;stroke-width:0.5", r, g, b))
	}

	canvas.End()
	return nil
}

func boundsXY(m *mesh.Mesh, coords []float64) (minX, minY, maxX, maxY float64) {
	d := m.Dim()
	n := m.Nents(mesh.VERT)
	if n == 0 {
		return 0, 0, 1, 1
	}
	minX, minY = coords[0], coords[1]
	maxX, maxY = coords[0], coords[1]
	for i := 0; i < n; i++ {
		x, y := coords[i*d], coords[i*d+1]
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return
}

// WriteQualityPNG rasterizes the same quality-colored mesh as
// WriteQualitySVG but to a PNG, using draw2d for the filled triangles
// and freetype (with the bundled Go Regular face from x/image) to draw
// a legend caption.
func WriteQualityPNG(m *mesh.Mesh, qualTag string, width, height int, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gc := draw2dimg.NewGraphicContext(img)
	gc.SetFillColor(color.White)
	gc.Clear()

	coords := m.Coords()
	minX, minY, maxX, maxY := boundsXY(m, coords)
	sx := float64(width) / (maxX - minX + 1e-9)
	sy := float64(height-40) / (maxY - minY + 1e-9)
	proj := func(x, y float64) (float64, float64) {
		return (x - minX) * sx, float64(height-40) - (y-minY)*sy
	}

	tris, err := surfaceTriangles(m)
	if err != nil {
		return err
	}
	elemDim := mesh.TRI
	if m.Dim() == 3 {
		elemDim = mesh.TET
	}
	var qtag *mesh.Tag
	hasQ := m.HasTag(elemDim, qualTag)
	if hasQ {
		qtag, _ = m.GetTag(elemDim, qualTag)
	}

	for i, t := range tris {
		q := 1.0
		if hasQ && i < len(qtag.F64) {
			q = qtag.F64[i]
		}
		r, g, b := qualityColor(q)
		gc.SetFillColor(color.RGBA{r, g, b, 255})
		x0, y0 := proj(coords[int(t[0])*m.Dim()], coords[int(t[0])*m.Dim()+1])
		gc.MoveTo(x0, y0)
		for _, v := range t[1:] {
			x, y := proj(coords[int(v)*m.Dim()], coords[int(v)*m.Dim()+1])
			gc.LineTo(x, y)
		}
		gc.Close()
		gc.Fill()
	}

	if err := drawLegend(gc, img, width, height); err != nil {
		return err
	}

	return draw2dimg.SaveToPngFile(path, img)
}

func drawLegend(gc *draw2dimg.GraphicContext, img *image.RGBA, width, height int) error {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}

	fc := freetype.NewContext()
	fc.SetFont(ttf)
	fc.SetFontSize(12)
	fc.SetDPI(72)
	fc.SetClip(img.Bounds())
	fc.SetDst(img)
	fc.SetSrc(image.NewUniform(color.Black))

	pt := freetype.Pt(4, height-8)
	_, err = fc.DrawString("quality: red=low green=high", pt)
	return err
}
