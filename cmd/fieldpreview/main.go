// Command fieldpreview builds a synthetic gridded or station field, runs it
// through the geofield pipeline and writes a PNG preview of the domain
// mesh, graticule and thinned point sprites.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/geofield"
	"github.com/gogpu/geofield/grid"
	"github.com/gogpu/geofield/proj"
	"github.com/gogpu/geofield/tess"
	"github.com/gogpu/geofield/worker"
)

type config struct {
	width, height int
	output        string
	thinFac       int
	maxZoom       int
	gridKind      string
	verbose       bool
}

func main() {
	var cfg config
	flag.IntVar(&cfg.width, "width", 800, "image width")
	flag.IntVar(&cfg.height, "height", 600, "image height")
	flag.StringVar(&cfg.output, "output", "field.png", "output file")
	flag.IntVar(&cfg.thinFac, "thin", 8, "thinning factor (power of two)")
	flag.IntVar(&cfg.maxZoom, "maxzoom", 2, "show points visible at or below this zoom")
	flag.StringVar(&cfg.gridKind, "grid", "lambert", "synthetic domain: lambert or stations")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging")
	flag.Parse()

	if cfg.verbose {
		geofield.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	s, err := run(context.Background(), cfg)
	if err != nil {
		log.Fatalf("fieldpreview: %v", err)
	}

	p := message.NewPrinter(language.English)
	p.Printf("%s grid: %d points, %d visible at zoom %d\n", s.kind, s.points, s.visible, cfg.maxZoom)
	p.Printf("domain mesh: %d vertices, graticule: %d lines, %d strip vertices\n", s.meshVertices, s.lines, s.lineVertices)
	p.Printf("preview saved to %s (%dx%d)\n", cfg.output, cfg.width, cfg.height)
}

type summary struct {
	kind         grid.Kind
	points       int
	visible      int
	meshVertices int
	lines        int
	lineVertices int
}

func run(ctx context.Context, cfg config) (summary, error) {
	var s summary

	g, err := buildGrid(cfg.gridKind)
	if err != nil {
		return s, err
	}
	s.kind = g.Kind()
	ni, nj := g.Shape()
	s.points = ni * nj

	ec, err := g.EarthCoords()
	if err != nil {
		return s, fmt.Errorf("earth coordinates: %w", err)
	}
	data := syntheticField(ec.Lons, ec.Lats)

	thinnable, ok := g.(grid.Thinnable)
	if !ok {
		return s, fmt.Errorf("%s grid cannot be thinned", g.Kind())
	}
	zoom, err := thinnable.MinVisibleZoom(cfg.thinFac)
	if err != nil {
		return s, fmt.Errorf("thinning: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c := worker.New().Start(ctx)
	defer c.Close()

	bb, err := worker.Call[*tess.BillboardData](ctx, c, worker.BillboardRequest{
		Lons: ec.Lons, Lats: ec.Lats, Zoom: zoom, Ni: ni, Nj: nj, MaxZoom: cfg.maxZoom,
	})
	if err != nil {
		return s, fmt.Errorf("billboards: %w", err)
	}
	s.visible = bb.Count

	var mesh *tess.Mesh
	if t, ok := g.(grid.Tessellable); ok {
		if mesh, err = t.DomainBuffers(64); err != nil {
			return s, fmt.Errorf("domain mesh: %w", err)
		}
		s.meshVertices = mesh.VertexCount
	}

	v := newView(ec.Lons, ec.Lats, cfg.width, cfg.height)
	lines := graticule(v, 10)
	s.lines = len(lines)
	ld, err := worker.Call[*tess.LineData](ctx, c, worker.PolylineRequest{Lines: lines})
	if err != nil {
		return s, fmt.Errorf("graticule: %w", err)
	}
	s.lineVertices = ld.VertexCount

	img := newCanvas(v)
	if mesh != nil {
		img.fillStrip(mesh.Positions, nil, 0, domainColor)
	}
	img.fillStrip(ld.Vertices, ld.Extrusion, 1, graticuleColor)
	img.points(bb, data, 2)

	if err := img.savePNG(cfg.output); err != nil {
		return s, err
	}
	return s, nil
}

func buildGrid(kind string) (grid.Grid, error) {
	switch kind {
	case "lambert":
		// HRRR CONUS at one tenth of its native resolution.
		params := grid.LambertParams{Lon0: -97.5, Lat0: 38.5, StdParallels: []float64{38.5}}
		const ni, nj = 180, 106
		ext, err := grid.LambertExtent(params, -122.719528, 21.138123, 30000, 30000, ni, nj)
		if err != nil {
			return nil, err
		}
		return grid.NewLambert(ni, nj, ext, params)
	case "stations":
		r := rand.New(rand.NewPCG(1, 2))
		lons := make([]float64, 3000)
		lats := make([]float64, len(lons))
		for i := range lons {
			lons[i] = -125 + 58*r.Float64()
			lats[i] = 25 + 24*r.Float64()
		}
		return grid.NewUnstructured(lons, lats)
	default:
		return nil, fmt.Errorf("unknown grid %q", kind)
	}
}

// syntheticField is a smooth pressure-like pattern in [-1, 1].
func syntheticField(lons, lats []float64) []float32 {
	out := make([]float32, len(lons))
	for i := range lons {
		out[i] = float32(math.Sin(lons[i]*math.Pi/18) * math.Cos(lats[i]*math.Pi/12))
	}
	return out
}

// graticule returns meridians and parallels every step degrees across the
// view, in web-Mercator coordinates.
func graticule(v view, step float64) []tess.LineString {
	const samples = 32
	lonMin := math.Floor(proj.LonFromMercatorX(v.x0)/step) * step
	lonMax := proj.LonFromMercatorX(v.x1)
	latMin := math.Floor(proj.LatFromMercatorY(v.y1)/step) * step
	latMax := proj.LatFromMercatorY(v.y0)

	var lines []tess.LineString
	for lon := lonMin; lon <= lonMax; lon += step {
		vs := make([]r2.Vec, samples)
		for k := range vs {
			lat := latMin + (latMax-latMin)*float64(k)/(samples-1)
			x, y := proj.Mercator(lon, lat)
			vs[k] = r2.Vec{X: x, Y: y}
		}
		lines = append(lines, tess.LineString{Vertices: vs})
	}
	for lat := latMin; lat <= latMax; lat += step {
		vs := make([]r2.Vec, samples)
		for k := range vs {
			lon := lonMin + (lonMax-lonMin)*float64(k)/(samples-1)
			x, y := proj.Mercator(lon, lat)
			vs[k] = r2.Vec{X: x, Y: y}
		}
		lines = append(lines, tess.LineString{Vertices: vs})
	}
	return lines
}
