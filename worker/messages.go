package worker

import (
	"github.com/gogpu/geofield/tess"
	"github.com/gogpu/geofield/thin"
)

// Op names a request type. It labels metrics and log records.
type Op string

// Request operations.
const (
	OpPolyline         Op = "polyline"
	OpBillboard        Op = "billboard"
	OpDomainMesh       Op = "domain_mesh"
	OpThinStructured   Op = "thin_structured"
	OpThinUnstructured Op = "thin_unstructured"
	OpGlyph            Op = "glyph"
)

// Request is one unit of work. The set of requests is closed; each
// carries its inputs by value.
type Request interface {
	Op() Op
	execute() (any, error)
}

// PolylineRequest tessellates lines. The result is *tess.LineData.
type PolylineRequest struct {
	Lines []tess.LineString
}

func (PolylineRequest) Op() Op { return OpPolyline }

func (r PolylineRequest) execute() (any, error) {
	return tess.Polylines(r.Lines)
}

// BillboardRequest builds point sprites. The result is *tess.BillboardData.
type BillboardRequest struct {
	Lons, Lats []float64
	Zoom       []uint8
	Ni, Nj     int
	MaxZoom    int
}

func (BillboardRequest) Op() Op { return OpBillboard }

func (r BillboardRequest) execute() (any, error) {
	return tess.Billboards(r.Lons, r.Lats, r.Zoom, r.Ni, r.Nj, r.MaxZoom)
}

// DomainMeshRequest builds a domain triangle strip. The result is
// *tess.Mesh.
type DomainMeshRequest struct {
	Lons, Lats     []float64
	Ni, Nj         int
	DataNi, DataNj int
}

func (DomainMeshRequest) Op() Op { return OpDomainMesh }

func (r DomainMeshRequest) execute() (any, error) {
	return tess.DomainMesh(r.Lons, r.Lats, r.Ni, r.Nj, r.DataNi, r.DataNj)
}

// ThinStructuredRequest computes the zoom map of a structured grid. The
// result is []uint8.
type ThinStructuredRequest struct {
	Ni, Nj  int
	ThinFac int
}

func (ThinStructuredRequest) Op() Op { return OpThinStructured }

func (r ThinStructuredRequest) execute() (any, error) {
	return thin.Structured(r.Ni, r.Nj, r.ThinFac)
}

// ThinUnstructuredRequest computes the zoom map of scattered points given
// in normalized web-Mercator coordinates. The result is []uint8.
type ThinUnstructuredRequest struct {
	Xs, Ys  []float64
	ThinFac int
	MaxZoom int
}

func (ThinUnstructuredRequest) Op() Op { return OpThinUnstructured }

func (r ThinUnstructuredRequest) execute() (any, error) {
	return thin.Unstructured(r.Xs, r.Ys, r.ThinFac, r.MaxZoom)
}

// GlyphRequest quantizes vectors into atlas cells. The result is
// *tess.GlyphData.
type GlyphRequest struct {
	U, V  []float32
	Atlas tess.AtlasSpec
}

func (GlyphRequest) Op() Op { return OpGlyph }

func (r GlyphRequest) execute() (any, error) {
	return tess.Glyphs(r.U, r.V, r.Atlas)
}

// Envelope is a request addressed by ID.
type Envelope struct {
	ID      uint64
	Request Request
}

// Reply is the outcome of one Envelope.
type Reply struct {
	ID     uint64
	Op     Op
	Result any
	Err    error
}
