package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/geofield/proj"
	"github.com/gogpu/geofield/tess"
)

var (
	background     = color.RGBA{R: 0x16, G: 0x1b, B: 0x22, A: 0xff}
	domainColor    = color.RGBA{R: 0x2d, G: 0x3a, B: 0x4a, A: 0xff}
	graticuleColor = color.RGBA{R: 0x6b, G: 0x77, B: 0x85, A: 0xff}
)

// view maps a web-Mercator window onto pixels with a uniform scale.
type view struct {
	x0, y0, x1, y1 float64
	scale          float64
	width, height  int
}

func newView(lons, lats []float64, width, height int) view {
	v := view{
		x0: math.Inf(1), y0: math.Inf(1), x1: math.Inf(-1), y1: math.Inf(-1),
		width: width, height: height,
	}
	for i := range lons {
		x, y := proj.Mercator(lons[i], lats[i])
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		v.x0, v.x1 = min(v.x0, x), max(v.x1, x)
		v.y0, v.y1 = min(v.y0, y), max(v.y1, y)
	}

	// 5% padding, then widen the short side to the image aspect.
	padX, padY := 0.05*(v.x1-v.x0), 0.05*(v.y1-v.y0)
	v.x0, v.x1 = v.x0-padX, v.x1+padX
	v.y0, v.y1 = v.y0-padY, v.y1+padY
	v.scale = min(float64(width)/(v.x1-v.x0), float64(height)/(v.y1-v.y0))
	cx, cy := (v.x0+v.x1)/2, (v.y0+v.y1)/2
	hw, hh := float64(width)/(2*v.scale), float64(height)/(2*v.scale)
	v.x0, v.x1 = cx-hw, cx+hw
	v.y0, v.y1 = cy-hh, cy+hh
	return v
}

// pixel maps web-Mercator coordinates to image coordinates. Mercator y
// grows southward like image rows.
func (v view) pixel(x, y float64) (px, py float32) {
	return float32((x - v.x0) * v.scale), float32((y - v.y0) * v.scale)
}

type canvas struct {
	view
	img *image.RGBA
}

func newCanvas(v view) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, v.width, v.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	return &canvas{view: v, img: img}
}

// fillStrip fills a triangle strip. positions holds stride floats per
// vertex with x, y first. When extrusion is set every vertex is pushed
// halfWidth pixels along it.
func (c *canvas) fillStrip(positions, extrusion []float32, halfWidth float32, col color.Color) {
	stride := 2
	if extrusion != nil {
		stride = 3
	}
	n := len(positions) / stride
	pts := make([][2]float32, n)
	for k := range pts {
		px, py := c.pixel(float64(positions[k*stride]), float64(positions[k*stride+1]))
		if extrusion != nil {
			px += halfWidth * extrusion[2*k]
			py += halfWidth * extrusion[2*k+1]
		}
		pts[k] = [2]float32{px, py}
	}

	r := vector.NewRasterizer(c.width, c.height)
	for k := 0; k+2 < n; k++ {
		a, b, d := pts[k], pts[k+1], pts[k+2]
		if !finite(a) || !finite(b) || !finite(d) {
			continue
		}
		r.MoveTo(a[0], a[1])
		r.LineTo(b[0], b[1])
		r.LineTo(d[0], d[1])
		r.ClosePath()
	}
	r.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

func finite(p [2]float32) bool {
	for _, f := range p {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}

// points draws a square of the given radius per billboard, colored by the
// field value of its source point.
func (c *canvas) points(bb *tess.BillboardData, data []float32, radius int) {
	for k := 0; k < bb.Count; k++ {
		px, py := c.pixel(float64(bb.Positions[2*k]), float64(bb.Positions[2*k+1]))
		x, y := int(px), int(py)
		rect := image.Rect(x-radius, y-radius, x+radius+1, y+radius+1)
		col := diverging(data[bb.Index[k]])
		draw.Draw(c.img, rect.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
	}
}

// diverging maps [-1, 1] onto a blue-white-red ramp.
func diverging(v float32) color.RGBA {
	t := max(-1, min(1, v))
	if t < 0 {
		f := uint8(255 * (1 + t))
		return color.RGBA{R: f, G: f, B: 0xff, A: 0xff}
	}
	f := uint8(255 * (1 - t))
	return color.RGBA{R: 0xff, G: f, B: f, A: 0xff}
}

func (c *canvas) savePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, c.img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
