package tess

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func vecs(pts ...float64) []r2.Vec {
	out := make([]r2.Vec, 0, len(pts)/2)
	for i := 0; i+1 < len(pts); i += 2 {
		out = append(out, r2.Vec{X: pts[i], Y: pts[i+1]})
	}
	return out
}

func TestPolylinesSingleSegment(t *testing.T) {
	ld, err := Polylines([]LineString{{Vertices: vecs(0, 0, 1, 0)}})
	if err != nil {
		t.Fatalf("Polylines: %v", err)
	}
	if ld.VertexCount != 6 {
		t.Fatalf("VertexCount = %d, want 6", ld.VertexCount)
	}
	if len(ld.Vertices) != 18 || len(ld.Extrusion) != 12 {
		t.Fatalf("buffer lengths = %d, %d; want 18, 12", len(ld.Vertices), len(ld.Extrusion))
	}
	if ld.Offsets != nil || ld.Data != nil || ld.Zoom != nil {
		t.Error("optional buffers should be nil")
	}

	// Segment along +x: left normal is +y.
	wantExt := []float32{0, 1, 0, 1, 0, -1, 0, 1, 0, -1, 0, -1}
	for i, w := range wantExt {
		if math.Abs(float64(ld.Extrusion[i]-w)) > 1e-5 {
			t.Errorf("Extrusion[%d] = %v, want %v", i, ld.Extrusion[i], w)
		}
	}

	wantDist := []float32{0, 0, 0, 1, -1, -1}
	for i, w := range wantDist {
		got := ld.Vertices[3*i+2]
		if math.Abs(float64(got-w)) > 1e-6 {
			t.Errorf("distance[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestPolylinesRepeatedEndpoints(t *testing.T) {
	ld, err := Polylines([]LineString{{Vertices: vecs(0, 0, 1, 1, 2, 0)}})
	if err != nil {
		t.Fatalf("Polylines: %v", err)
	}
	n := ld.VertexCount
	if n != 10 {
		t.Fatalf("VertexCount = %d, want 10", n)
	}
	for c := 0; c < 3; c++ {
		if ld.Vertices[c] != ld.Vertices[3+c] {
			t.Errorf("leading vertex component %d differs: %v vs %v", c, ld.Vertices[c], ld.Vertices[3+c])
		}
		if ld.Vertices[3*(n-1)+c] != ld.Vertices[3*(n-2)+c] {
			t.Errorf("trailing vertex component %d differs", c)
		}
	}
	for c := 0; c < 2; c++ {
		if ld.Extrusion[c] != ld.Extrusion[2+c] {
			t.Errorf("leading extrusion component %d differs", c)
		}
		if ld.Extrusion[2*(n-1)+c] != ld.Extrusion[2*(n-2)+c] {
			t.Errorf("trailing extrusion component %d differs", c)
		}
	}
}

func TestPolylinesUnitExtrusion(t *testing.T) {
	lines := []LineString{
		{Vertices: vecs(0, 0, 3, 4, 3, 10, -2, 7)},
		{Vertices: vecs(0.1, 0.2, 0.1000001, 0.2000003)},
	}
	ld, err := Polylines(lines)
	if err != nil {
		t.Fatalf("Polylines: %v", err)
	}
	for i := 0; i < ld.VertexCount; i++ {
		x, y := float64(ld.Extrusion[2*i]), float64(ld.Extrusion[2*i+1])
		if l := math.Hypot(x, y); math.Abs(l-1) > 1e-5 {
			t.Errorf("vertex %d extrusion length = %v, want 1", i, l)
		}
	}
}

func TestPolylinesZeroLengthSegment(t *testing.T) {
	ld, err := Polylines([]LineString{{Vertices: vecs(5, 5, 5, 5, 6, 5)}})
	if err != nil {
		t.Fatalf("Polylines: %v", err)
	}
	for i, v := range ld.Extrusion {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("Extrusion[%d] = %v", i, v)
		}
	}
	for i, v := range ld.Vertices {
		if math.IsNaN(float64(v)) {
			t.Fatalf("Vertices[%d] = NaN", i)
		}
	}
}

func TestPolylinesMultipleLines(t *testing.T) {
	lines := []LineString{
		{Vertices: vecs(0, 0, 1, 0), Data: []float32{1, 2}, Zoom: 3, HasZoom: true},
		{Vertices: vecs(0, 1, 1, 1, 2, 1, 3, 1), Data: []float32{5, 6, 7, 8}, Zoom: 4, HasZoom: true},
		{Vertices: vecs(0, 2, 1, 2, 2, 2), Data: []float32{9, 9, 9}, Zoom: 5, HasZoom: true},
	}
	ld, err := Polylines(lines)
	if err != nil {
		t.Fatalf("Polylines: %v", err)
	}

	want := 4*(2+4+3) - 2*3
	if ld.VertexCount != want || PolylineVertexCount(2, 4, 3) != want {
		t.Fatalf("VertexCount = %d, PolylineVertexCount = %d; want %d", ld.VertexCount, PolylineVertexCount(2, 4, 3), want)
	}
	if len(ld.Data) != want || len(ld.Zoom) != want {
		t.Fatalf("Data %d, Zoom %d; want %d", len(ld.Data), len(ld.Zoom), want)
	}

	// Line boundaries: 6 vertices for line 0, 14 for line 1.
	if ld.Zoom[5] != 3 || ld.Zoom[6] != 4 || ld.Zoom[19] != 4 || ld.Zoom[20] != 5 {
		t.Errorf("zoom around boundaries = %v", ld.Zoom[4:22])
	}
	if ld.Data[0] != 1 || ld.Data[5] != 2 || ld.Data[6] != 5 {
		t.Errorf("data around first boundary = %v", ld.Data[:8])
	}

	// Arc length restarts for each line.
	if ld.Vertices[3*6+2] != 0 {
		t.Errorf("line 1 starts at distance %v", ld.Vertices[3*6+2])
	}
}

func TestPolylinesOffsets(t *testing.T) {
	anchor := vecs(10, 10, 10, 10, 10, 10)
	offsets := vecs(0, 0, 1, 0, 1, 1)
	ld, err := Polylines([]LineString{{Vertices: anchor, Offsets: offsets}})
	if err != nil {
		t.Fatalf("Polylines: %v", err)
	}
	if len(ld.Offsets) != 2*ld.VertexCount {
		t.Fatalf("Offsets length = %d, want %d", len(ld.Offsets), 2*ld.VertexCount)
	}
	// First segment of the offset path runs along +x; normals are flipped.
	if ld.Extrusion[0] != 0 || math.Abs(float64(ld.Extrusion[1]+1)) > 1e-6 {
		t.Errorf("first extrusion = (%v, %v), want (0, -1)", ld.Extrusion[0], ld.Extrusion[1])
	}
	for i := 0; i < ld.VertexCount; i++ {
		if ld.Vertices[3*i] != 10 || ld.Vertices[3*i+1] != 10 {
			t.Fatalf("vertex %d moved off the anchor", i)
		}
	}
}

func TestPolylinesErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []LineString
		want  error
	}{
		{"single vertex", []LineString{{Vertices: vecs(0, 0)}}, ErrDegenerateLine},
		{"data length", []LineString{{Vertices: vecs(0, 0, 1, 1), Data: []float32{1}}}, ErrAttributeMismatch},
		{"offset length", []LineString{{Vertices: vecs(0, 0, 1, 1), Offsets: vecs(0, 0)}}, ErrAttributeMismatch},
		{
			"mixed data",
			[]LineString{
				{Vertices: vecs(0, 0, 1, 1), Data: []float32{1, 2}},
				{Vertices: vecs(0, 0, 1, 1)},
			},
			ErrAttributeMismatch,
		},
		{
			"mixed zoom",
			[]LineString{
				{Vertices: vecs(0, 0, 1, 1), HasZoom: true},
				{Vertices: vecs(0, 0, 1, 1)},
			},
			ErrAttributeMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ld, err := Polylines(tt.lines)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if ld != nil {
				t.Error("output should be nil on error")
			}
		})
	}
}

func TestPolylinesEmpty(t *testing.T) {
	ld, err := Polylines(nil)
	if err != nil {
		t.Fatalf("Polylines(nil): %v", err)
	}
	if ld.VertexCount != 0 || len(ld.Vertices) != 0 {
		t.Errorf("got %d vertices", ld.VertexCount)
	}
}

func BenchmarkPolylines(b *testing.B) {
	line := make([]r2.Vec, 1000)
	for i := range line {
		line[i] = r2.Vec{X: float64(i), Y: math.Sin(float64(i) / 10)}
	}
	lines := []LineString{{Vertices: line}, {Vertices: line}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Polylines(lines); err != nil {
			b.Fatal(err)
		}
	}
}
