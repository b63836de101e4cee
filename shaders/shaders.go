// Package shaders holds the WGSL programs that draw the buffers produced by
// package tess, and compiles them to SPIR-V.
package shaders

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/naga"
)

//go:embed wgsl/polyline.wgsl
var polylineSource string

//go:embed wgsl/billboard.wgsl
var billboardSource string

//go:embed wgsl/mesh.wgsl
var meshSource string

// Shader names.
const (
	Polyline  = "polyline"
	Billboard = "billboard"
	Mesh      = "mesh"
)

// Entry points shared by all programs.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

var (
	// ErrUnknownShader is returned for names other than the shader
	// constants.
	ErrUnknownShader = errors.New("shaders: unknown shader")

	// ErrInvalidSPIRV is returned when the compiler output is not a SPIR-V
	// module.
	ErrInvalidSPIRV = errors.New("shaders: invalid SPIR-V output")
)

var sources = map[string]*string{
	Polyline:  &polylineSource,
	Billboard: &billboardSource,
	Mesh:      &meshSource,
}

// Names returns the available shader names in sorted order.
func Names() []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Source returns the WGSL source of a shader.
func Source(name string) (string, error) {
	src, ok := sources[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownShader, name)
	}
	return *src, nil
}

// Compile compiles a shader to SPIR-V bytes.
func Compile(name string) ([]byte, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("shaders: compile %s: %w", name, err)
	}
	if len(spirv) < 4 || len(spirv)%4 != 0 {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrInvalidSPIRV, name, len(spirv))
	}
	if magic := leWord(spirv); magic != spirvMagic {
		return nil, fmt.Errorf("%w: %s magic 0x%08X", ErrInvalidSPIRV, name, magic)
	}
	return spirv, nil
}

// CompileWords compiles a shader to SPIR-V as little-endian 32-bit words,
// the form shader module descriptors take.
func CompileWords(name string) ([]uint32, error) {
	spirv, err := Compile(name)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = leWord(spirv[i*4:])
	}
	return words, nil
}

func leWord(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
