package shader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslMember is a struct member or entry point parameter. location is -1 without @location.
type wgslMember struct {
	name     string
	wgslType string
	location int
	builtin  bool
}

type wgslStruct struct {
	name   string
	fields []wgslMember
}

// wgslVertexFormatMap maps WGSL type names to their corresponding wgpu vertex format
var wgslVertexFormatMap = map[string]wgpu.VertexFormat{
	"f32":       wgpu.VertexFormatFloat32,
	"vec2f":     wgpu.VertexFormatFloat32x2,
	"vec2<f32>": wgpu.VertexFormatFloat32x2,
	"vec3f":     wgpu.VertexFormatFloat32x3,
	"vec3<f32>": wgpu.VertexFormatFloat32x3,
	"vec4f":     wgpu.VertexFormatFloat32x4,
	"vec4<f32>": wgpu.VertexFormatFloat32x4,
	"i32":       wgpu.VertexFormatSint32,
	"vec2i":     wgpu.VertexFormatSint32x2,
	"vec2<i32>": wgpu.VertexFormatSint32x2,
	"vec3i":     wgpu.VertexFormatSint32x3,
	"vec3<i32>": wgpu.VertexFormatSint32x3,
	"vec4i":     wgpu.VertexFormatSint32x4,
	"vec4<i32>": wgpu.VertexFormatSint32x4,
	"u32":       wgpu.VertexFormatUint32,
	"vec2u":     wgpu.VertexFormatUint32x2,
	"vec2<u32>": wgpu.VertexFormatUint32x2,
	"vec3u":     wgpu.VertexFormatUint32x3,
	"vec3<u32>": wgpu.VertexFormatUint32x3,
	"vec4u":     wgpu.VertexFormatUint32x4,
	"vec4<u32>": wgpu.VertexFormatUint32x4,
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\(\s*(\d+)\s*\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\s*\w+\s*\)`)

	// fieldRegex matches a field or parameter: optional attributes, name, colon, type.
	fieldRegex = regexp.MustCompile(`(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)`)

	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding and variable name from declarations like
	// @group(0) @binding(0) var<uniform> camera: CameraUniform;
	bindGroupDeclRegex = regexp.MustCompile(`@group\(\s*(\d+)\s*\)\s*@binding\(\s*(\d+)\s*\)\s*var(?:<[^>]*>)?\s+(\w+)\s*:`)
)

// parseEntryPoint extracts the entry point function name matched by re.
// Returns an empty string if no matching entry point annotation is found.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - re: vertexEntryRegex or fragmentEntryRegex
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(source string, re *regexp.Regexp) string {
	if match := re.FindStringSubmatch(stripComments(source)); match != nil {
		return match[1]
	}
	return ""
}

// parseVertexLocations resolves the @location inputs of the named vertex entry point.
// Parameters may carry @location directly or be a struct whose members do; builtins are skipped.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - entry: the vertex entry point name
//
// Returns:
//   - map[uint32]wgpu.VertexFormat: vertex formats keyed by location; unknown types are left out
func parseVertexLocations(source, entry string) map[uint32]wgpu.VertexFormat {
	result := make(map[uint32]wgpu.VertexFormat)
	if entry == "" {
		return result
	}
	cleaned := stripComments(source)

	structs := make(map[string]wgslStruct)
	for _, ps := range parseStructBlocks(cleaned) {
		structs[ps.name] = ps
	}

	add := func(f wgslMember) {
		if f.builtin || f.location < 0 {
			return
		}
		if format, ok := wgslVertexFormatMap[f.wgslType]; ok {
			result[uint32(f.location)] = format
		}
	}

	for _, param := range parseFields(entryParams(cleaned, entry)) {
		if ps, ok := structs[param.wgslType]; ok && param.location < 0 {
			for _, f := range ps.fields {
				add(f)
			}
			continue
		}
		add(param)
	}
	return result
}

// entryParams returns the text between the parentheses of fn name(...).
func entryParams(source, name string) string {
	re := regexp.MustCompile(`\bfn\s+` + regexp.QuoteMeta(name) + `\s*\(`)
	loc := re.FindStringIndex(source)
	if loc == nil {
		return ""
	}
	depth := 1
	for i := loc[1]; i < len(source); i++ {
		switch source[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return source[loc[1]:i]
			}
		}
	}
	return ""
}

// parseBindGroupDecls extracts all @group(N) @binding(M) declarations from WGSL source.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - map[uint32]map[uint32]string: variable names keyed by group and binding index
func parseBindGroupDecls(source string) map[uint32]map[uint32]string {
	varNames := make(map[uint32]map[uint32]string)
	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(stripComments(source), -1) {
		group, _ := strconv.ParseUint(match[1], 10, 32)
		binding, _ := strconv.ParseUint(match[2], 10, 32)
		if varNames[uint32(group)] == nil {
			varNames[uint32(group)] = make(map[uint32]string)
		}
		varNames[uint32(group)][uint32(binding)] = match[3]
	}
	return varNames
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned WGSL source
// and parses their fields including @location and @builtin attributes
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []wgslStruct: all struct blocks found in the source
func parseStructBlocks(source string) []wgslStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]wgslStruct, 0, len(matches))
	for _, match := range matches {
		structs = append(structs, wgslStruct{
			name:   match[1],
			fields: parseFields(match[2]),
		})
	}
	return structs
}

// parseFields parses a comma separated list of struct members or function parameters,
// extracting @location and @builtin attributes along with the name and type
func parseFields(body string) []wgslMember {
	parts := splitAtTopLevelCommas(body)
	fields := make([]wgslMember, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field := wgslMember{location: -1}
		if builtinRegex.MatchString(part) {
			field.builtin = true
		}
		if locMatch := locationRegex.FindStringSubmatch(part); locMatch != nil {
			if loc, err := strconv.Atoi(locMatch[1]); err == nil {
				field.location = loc
			}
		}

		fm := fieldRegex.FindStringSubmatch(part)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.wgslType = strings.TrimSpace(fm[2])
		fields = append(fields, field)
	}
	return fields
}

// splitAtTopLevelCommas splits s on commas that are not nested inside <> or ().
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(':
			depth++
		case '>', ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// stripComments removes line and nested block comments from WGSL source.
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i++
				continue
			}
			if depth > 0 && source[i] == '*' && source[i+1] == '/' {
				depth--
				i++
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
