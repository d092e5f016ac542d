package material

import (
	_ "embed"
	"strings"
)

// Source is the canonical WGSL definition of the Material struct. Programs embed it in their
// uniform block as a member named "material", which exposes the uniform paths
// "material.ambient", "material.diffuse", "material.specular" and "material.shininess".
//
// Layout:
//
//	vec4<f32> ambient   (offset  0)
//	vec4<f32> diffuse   (offset 16)
//	vec4<f32> specular  (offset 32)
//	f32       shininess (offset 48)
//	                    (offset 52, padding to 64)
//
//go:embed assets/material.wgsl
var Source string

// TypeName is the WGSL struct name declared by Source.
const TypeName = "Material"

// Size is the byte size of the Material struct inside a uniform block.
const Size = 64

// LightingFlags selects the terms of the Phong lighting model a lit program evaluates. The
// value is uploaded as the u32 uniform "lightingFlags".
type LightingFlags uint32

const (
	// FlagAmbient enables the ambient term.
	FlagAmbient LightingFlags = 1 << iota
	// FlagDiffuse enables the diffuse term.
	FlagDiffuse
	// FlagSpecular enables the specular term.
	FlagSpecular
	// FlagHalfway computes the specular term with the halfway vector (Blinn-Phong) instead of
	// the reflection vector.
	FlagHalfway
)

// FlagsPhong enables every term with the classic reflection-vector specular.
const FlagsPhong = FlagAmbient | FlagDiffuse | FlagSpecular

// FlagsBlinnPhong enables every term with the halfway-vector specular.
const FlagsBlinnPhong = FlagsPhong | FlagHalfway

// Has reports whether every bit of flag is set.
func (f LightingFlags) Has(flag LightingFlags) bool {
	return f&flag == flag
}

// With returns f with flag set when on is true and cleared otherwise.
func (f LightingFlags) With(flag LightingFlags, on bool) LightingFlags {
	if on {
		return f | flag
	}
	return f &^ flag
}

func (f LightingFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		flag LightingFlags
		name string
	}{
		{FlagAmbient, "ambient"},
		{FlagDiffuse, "diffuse"},
		{FlagSpecular, "specular"},
		{FlagHalfway, "halfway"},
	} {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
