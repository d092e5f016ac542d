// Package wgsl extracts pipeline metadata from WGSL source: the vertex input layout, the bind
// group layouts, entry point names and the flattened layout of the program uniform block.
// It also hosts the include pre-processor used by the built-in programs.
package wgsl

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslVertexFormatMap maps WGSL type names to their corresponding wgpu vertex format and byte size
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"i32":       {wgpu.VertexFormatSint32, 4},
}

var (
	structBlockRegex   = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex      = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex       = regexp.MustCompile(`@builtin\(\w+\)`)
	fieldRegex         = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)
	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name and type
	// from declarations like: @group(0) @binding(0) var<uniform> u: Uniforms;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// ParseVertexLayout returns the buffer layout of the first pure vertex input struct in source,
// that is a struct with @location members and no @builtin members.
//
// Parameters:
//   - source: WGSL source
//
// Returns:
//   - wgpu.VertexBufferLayout: the packed layout with sequential offsets
//   - bool: false if source declares no usable vertex input struct
func ParseVertexLayout(source string) (wgpu.VertexBufferLayout, bool) {
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if !isVertexInputStruct(ps) {
			continue
		}
		if layout, ok := buildVertexBufferLayout(ps); ok {
			return layout, true
		}
	}
	return wgpu.VertexBufferLayout{}, false
}

// ParseBindGroupLayouts extracts every @group(N) @binding(M) declaration and groups them into
// layout descriptors with entries sorted by binding. The uniform at group 0 binding 0 is marked
// with a dynamic offset since every program suballocates it from a shared ring.
//
// Parameters:
//   - source: WGSL source
//   - visibility: the stage visibility applied to every entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding
func ParseBindGroupLayouts(source string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	varNames := make(map[int]map[int]string)
	cleaned := stripComments(source)
	structSizes := computeStructSizes(parseStructBlocks(cleaned))

	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		typeName := strings.TrimSpace(match[5])

		entry := classifyResource(uint32(binding), visibility, addressSpace, typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if layout, ok := resolveTypeLayout(typeName, structSizes); ok && layout.size > 0 {
				entry.Buffer.MinBindingSize = layout.size
			}
			if group == 0 && binding == 0 && entry.Buffer.Type == wgpu.BufferBindingTypeUniform {
				entry.Buffer.HasDynamicOffset = true
			}
		}
		groups[group] = append(groups[group], entry)

		if varNames[group] == nil {
			varNames[group] = make(map[int]string)
		}
		varNames[group][binding] = strings.TrimSpace(match[4])
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result, varNames
}

// ParseEntryPoint returns the name of the first function annotated for stage, or "".
func ParseEntryPoint(source string, stage Stage) string {
	var re *regexp.Regexp
	switch stage {
	case StageVertex:
		re = vertexEntryRegex
	case StageFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}
	if match := re.FindStringSubmatch(stripComments(source)); match != nil {
		return match[1]
	}
	return ""
}

// ParseUniformLayout flattens the struct bound at @group(0) @binding(0) into leaf members with
// WGSL uniform address space offsets. Nested structs contribute dotted paths. Fixed-size arrays
// are exposed as a single member covering the whole array.
//
// A program without a uniform block yields an empty layout and no error.
//
// Parameters:
//   - source: WGSL source
//
// Returns:
//   - UniformLayout: the flattened layout
//   - error: error if the uniform block type cannot be resolved
func ParseUniformLayout(source string) (UniformLayout, error) {
	cleaned := stripComments(source)
	structs := parseStructBlocks(cleaned)

	var typeName string
	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		if match[1] == "0" && match[2] == "0" && strings.TrimSpace(match[3]) == "uniform" {
			typeName = strings.TrimSpace(match[5])
			break
		}
	}
	if typeName == "" {
		return UniformLayout{Fields: map[string]UniformField{}}, nil
	}

	byName := make(map[string]parsedStruct, len(structs))
	for _, ps := range structs {
		byName[ps.name] = ps
	}
	known := computeStructSizes(structs)
	root, ok := byName[typeName]
	if !ok {
		return UniformLayout{}, fmt.Errorf("uniform block type %q is not a struct declared in source", typeName)
	}
	layout, ok := known[typeName]
	if !ok {
		return UniformLayout{}, fmt.Errorf("uniform block type %q has unresolvable members", typeName)
	}

	fields := make(map[string]UniformField)
	flattenStruct(root, "", 0, byName, known, fields)
	return UniformLayout{TypeName: typeName, Size: uint32(layout.size), Fields: fields}, nil
}

func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, match := range matches {
		structs = append(structs, parsedStruct{name: match[1], fields: parseStructFields(match[2])})
	}
	return structs
}

func parseStructFields(body string) []parsedField {
	parts := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field := parsedField{location: -1, isBuiltin: builtinRegex.MatchString(part)}
		if m := locationRegex.FindStringSubmatch(part); m != nil {
			if loc, err := strconv.Atoi(m[1]); err == nil {
				field.location = loc
			}
		}
		fm := fieldRegex.FindStringSubmatch(part)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.typeName = strings.TrimSpace(fm[2])
		fields = append(fields, field)
	}
	return fields
}
