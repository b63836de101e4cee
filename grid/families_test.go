package grid

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/geofield"
	"github.com/gogpu/geofield/proj"
)

var hrrrParams = LambertParams{
	Lon0:         -97.5,
	Lat0:         38.5,
	StdParallels: []float64{38.5, 38.5},
	A:            6371229,
	B:            6371229,
}

func newTestHRRR(t *testing.T) *LambertGrid {
	t.Helper()
	ext, err := LambertExtent(hrrrParams, -122.719528, 21.138123, 3000, 3000, 1799, 1059)
	if err != nil {
		t.Fatalf("LambertExtent: %v", err)
	}
	g, err := NewLambert(1799, 1059, ext, hrrrParams)
	if err != nil {
		t.Fatalf("NewLambert: %v", err)
	}
	return g
}

func TestLambert_HRRRCorners(t *testing.T) {
	g := newTestHRRR(t)
	ec, err := g.EarthCoords(WithResolution(2, 2))
	if err != nil {
		t.Fatalf("EarthCoords: %v", err)
	}
	corners := []struct {
		k        int
		lon, lat float64
	}{
		{0, -122.719528, 21.138123},
		{3, -60.917193, 47.842195},
	}
	for _, c := range corners {
		if !approx(ec.Lons[c.k], c.lon, 0.05) || !approx(ec.Lats[c.k], c.lat, 0.05) {
			t.Errorf("corner %d = (%v, %v), want (%v, %v)", c.k, ec.Lons[c.k], ec.Lats[c.k], c.lon, c.lat)
		}
	}
	if !g.IsConformal() || g.Kind() != KindLambert {
		t.Errorf("kind = %v, conformal = %v", g.Kind(), g.IsConformal())
	}
}

func TestLambert_RoundTrip(t *testing.T) {
	g := newTestHRRR(t)
	small, err := g.Copy(WithShape(20, 12))
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	ec, err := small.EarthCoords()
	if err != nil {
		t.Fatalf("EarthCoords: %v", err)
	}
	gc, err := small.GridCoords()
	if err != nil {
		t.Fatalf("GridCoords: %v", err)
	}
	for j, y := range gc.Y {
		for i, x := range gc.X {
			k := j*20 + i
			gx, gy := small.Transform(ec.Lons[k], ec.Lats[k], false)
			if !approx(gx, x, 1e-3) || !approx(gy, y, 1e-3) {
				t.Fatalf("point (%d, %d): forward(inverse) = (%v, %v), want (%v, %v)", i, j, gx, gy, x, y)
			}
		}
	}
}

func TestLambert_VectorRotation(t *testing.T) {
	g := newTestHRRR(t)
	small, err := g.Copy(WithShape(15, 9))
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	rg := small.(Rotatable)
	rot, err := rg.VectorRotation()
	if err != nil {
		t.Fatalf("VectorRotation: %v", err)
	}
	ec, _ := small.EarthCoords()
	n := math.Sin(38.5 * math.Pi / 180)
	for k, r := range rot {
		want := n * proj.NormalizeLon(ec.Lons[k]-hrrrParams.Lon0) * math.Pi / 180
		if !approx(float64(r), want, 1e-4) {
			t.Errorf("rot[%d] = %v, want %v", k, r, want)
		}
	}
}

func TestRotateToEarth(t *testing.T) {
	g := newTestHRRR(t)
	small, err := g.Copy(WithShape(3, 2))
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	rot, _ := small.(Rotatable).VectorRotation()

	u := make([]float32, 6)
	v := []float32{1, 1, 1, 1, 1, 1}
	east, north, err := RotateToEarth(small, u, v)
	if err != nil {
		t.Fatalf("RotateToEarth: %v", err)
	}
	for k := range u {
		beta := float64(rot[k])
		if !approx(float64(east[k]), math.Sin(beta), 1e-6) || !approx(float64(north[k]), math.Cos(beta), 1e-6) {
			t.Errorf("point %d: (%v, %v), want (%v, %v)", k, east[k], north[k], math.Sin(beta), math.Cos(beta))
		}
	}
	// The grid straddles the central meridian, so west and east columns
	// turn in opposite directions.
	if !(east[0] < 0 && east[2] > 0) {
		t.Errorf("east components = %v", east)
	}

	if _, _, err := RotateToEarth(small, u[:2], v); !errors.Is(err, ErrDataLength) {
		t.Errorf("short u: err = %v, want ErrDataLength", err)
	}
}

func TestRotateToEarth_NonConformalWarns(t *testing.T) {
	var buf bytes.Buffer
	geofield.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { geofield.SetLogger(nil) })

	g, err := NewRadarSweep(4, 2, RadarSite{Lon: -97, Lat: 35}, 0, 1000, 1000)
	if err != nil {
		t.Fatalf("NewRadarSweep: %v", err)
	}
	u := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	v := []float32{8, 7, 6, 5, 4, 3, 2, 1}
	east, north, err := RotateToEarth(g, u, v)
	if err != nil {
		t.Fatalf("RotateToEarth: %v", err)
	}
	for k := range u {
		if east[k] != u[k] || north[k] != v[k] {
			t.Fatalf("point %d changed: (%v, %v)", k, east[k], north[k])
		}
	}
	east[0] = 100
	if u[0] != 1 {
		t.Error("result aliases the input")
	}
	if !strings.Contains(buf.String(), "non-conformal") {
		t.Errorf("expected a warning, log = %q", buf.String())
	}
}

func TestRotatedPlateCarree_RoundTrip(t *testing.T) {
	pole := RotatedPole{Lon: -170, Lat: 40}
	g, err := NewRotatedPlateCarree(5, 5, Extent{XMin: -10, YMin: -10, XMax: 10, YMax: 10}, pole)
	if err != nil {
		t.Fatalf("NewRotatedPlateCarree: %v", err)
	}
	ec, _ := g.EarthCoords()
	gc, _ := g.GridCoords()
	for j, y := range gc.Y {
		for i, x := range gc.X {
			k := j*5 + i
			rx, ry := g.Transform(ec.Lons[k], ec.Lats[k], false)
			if !approx(rx, x, 1e-6) || !approx(ry, y, 1e-6) {
				t.Errorf("point (%d, %d): (%v, %v), want (%v, %v)", i, j, rx, ry, x, y)
			}
		}
	}
	s, err := g.SampleNearest(ec.Lons[12], ec.Lats[12], indexData(25))
	if err != nil || s.Index != 12 {
		t.Errorf("centre sample = %+v, %v", s, err)
	}
	if g.Pole() != pole {
		t.Errorf("Pole() = %+v", g.Pole())
	}
}

func TestGeostationary(t *testing.T) {
	const h = 35786023.0
	ext := ScanAngleExtent(-0.151844, -0.151844, 0.151844, 0.151844, h)
	g, err := NewGeostationary(11, 11, ext, GeosParams{Lon0: -75, Height: h})
	if err != nil {
		t.Fatalf("NewGeostationary: %v", err)
	}
	if g.IsConformal() {
		t.Error("geostationary grid should not be conformal")
	}

	ec, err := g.EarthCoords()
	if err != nil {
		t.Fatalf("EarthCoords: %v", err)
	}
	centre := 5*11 + 5
	if !approx(ec.Lons[centre], -75, 1e-9) || !approx(ec.Lats[centre], 0, 1e-9) {
		t.Errorf("centre = (%v, %v), want (-75, 0)", ec.Lons[centre], ec.Lats[centre])
	}
	if !math.IsNaN(ec.Lons[0]) {
		t.Errorf("corner is off the disk but got lon %v", ec.Lons[0])
	}

	m, err := g.DomainBuffers(0)
	if err != nil {
		t.Fatalf("DomainBuffers: %v", err)
	}
	if !m.HasNaN() {
		t.Error("full-disk mesh should contain off-disk vertices")
	}

	s, err := g.SampleNearest(-75, 0, indexData(121))
	if err != nil || s.Index != centre {
		t.Errorf("sub-satellite sample = %+v, %v", s, err)
	}

	if _, err := NewGeostationary(11, 11, ext, GeosParams{Lon0: -75}); !errors.Is(err, proj.ErrInvalidParameters) {
		t.Errorf("zero height: err = %v, want ErrInvalidParameters", err)
	}
}

func TestRadarSweep(t *testing.T) {
	site := RadarSite{Lon: -97.5, Lat: 35.2}
	g, err := NewRadarSweep(360, 100, site, 0, 500, 1000)
	if err != nil {
		t.Fatalf("NewRadarSweep: %v", err)
	}
	ec, err := g.EarthCoords()
	if err != nil {
		t.Fatalf("EarthCoords: %v", err)
	}

	east := 10*360 + 90
	if !(ec.Lons[east] > site.Lon) || !approx(ec.Lats[east], site.Lat, 0.01) {
		t.Errorf("az 90 gate = (%v, %v)", ec.Lons[east], ec.Lats[east])
	}
	north := 10*360 + 0
	if !(ec.Lats[north] > site.Lat) || !approx(ec.Lons[north], site.Lon, 1e-9) {
		t.Errorf("az 0 gate = (%v, %v)", ec.Lons[north], ec.Lats[north])
	}

	data := indexData(360 * 100)
	tests := []struct {
		name    string
		az, rng float64
		index   int
	}{
		{"on gate", 90, 10500, east},
		{"just west of north", 359.8, 10500, north},
		{"between gates", 45.2, 20400, 20*360 + 45},
		{"beyond last gate", 10, 100500, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lon, lat := g.Transform(tt.az, tt.rng, true)
			s, err := g.SampleNearest(lon, lat, data)
			if err != nil {
				t.Fatalf("SampleNearest: %v", err)
			}
			if s.Index != tt.index {
				t.Errorf("Index = %d, want %d", s.Index, tt.index)
			}
		})
	}

	if g.Site() != site || g.Kind() != KindRadarSweep {
		t.Errorf("Site = %+v, Kind = %v", g.Site(), g.Kind())
	}
	if _, err := NewRadarSweep(0, 10, site, 0, 0, 250); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("no rays: err = %v, want ErrInvalidShape", err)
	}
}
