package tess

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// Vertex strides in bytes.
const (
	positionStride  = 12 // x, y, distance
	extrusionStride = 8  // nx, ny
	offsetStride    = 8  // ox, oy
	scalarStride    = 4  // one float32
	pointStride     = 8  // x, y
	texCoordStride  = 8  // u, v
)

// PolylineLayout returns the vertex buffer layouts for LineData, one buffer
// per attribute in the order Vertices, Extrusion, Offsets, Data, Zoom.
func PolylineLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: positionStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, // position, distance
			},
		},
		{
			ArrayStride: extrusionStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1}, // extrusion
			},
		},
		{
			ArrayStride: offsetStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 2}, // offset
			},
		},
		{
			ArrayStride: scalarStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32, Offset: 0, ShaderLocation: 3}, // data
			},
		},
		{
			ArrayStride: scalarStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32, Offset: 0, ShaderLocation: 4}, // zoom
			},
		},
	}
}

// BillboardLayout returns the vertex buffer layouts for BillboardData:
// Positions then TexCoords, both stepped per instance. Each billboard is
// drawn as a 4-vertex strip quad.
func BillboardLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: pointStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // anchor
			},
		},
		{
			ArrayStride: texCoordStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1}, // zoom + column, row
			},
		},
	}
}

// BillboardQuadVertices is the vertex count drawn per billboard instance.
const BillboardQuadVertices = 4

// MeshLayout returns the vertex buffer layouts for Mesh: Positions then
// TexCoords.
func MeshLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: pointStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
			},
		},
		{
			ArrayStride: texCoordStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1}, // tex coord
			},
		},
	}
}

// StripPrimitive is the primitive state for polylines, domain meshes and
// billboard quads.
func StripPrimitive() gputypes.PrimitiveState {
	return gputypes.PrimitiveState{
		Topology: gputypes.PrimitiveTopologyTriangleStrip,
		CullMode: gputypes.CullModeNone,
	}
}

// PointPrimitive is the primitive state for drawing billboard anchors as
// single-pixel points, as previews and debug overlays do.
func PointPrimitive() gputypes.PrimitiveState {
	return gputypes.PrimitiveState{
		Topology: gputypes.PrimitiveTopologyPointList,
		CullMode: gputypes.CullModeNone,
	}
}

// Float32Bytes packs floats little-endian for buffer upload.
func Float32Bytes(data []float32) []byte {
	buf := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// Uint32Bytes packs indices little-endian for buffer upload.
func Uint32Bytes(data []uint32) []byte {
	buf := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}
