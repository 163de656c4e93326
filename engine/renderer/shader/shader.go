package shader

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

// shader is the implementation of the Shader interface.
// It holds the WGSL source together with the reflection data needed to check a pipeline against it.
type shader struct {
	key             string
	source          string
	vertexEntry     string
	fragmentEntry   string
	vertexLocations map[uint32]wgpu.VertexFormat
	bindingVarNames map[uint32]map[uint32]string
	module          *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a parsed WGSL render shader. It exposes the shader's key, source,
// entry points, and the vertex inputs and resource bindings reflected from the source so a pipeline
// can be checked against the shader before anything is submitted to the device.
type Shader interface {
	// Key retrieves the unique identifier for this shader, also used as the module label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	//
	// Returns:
	//   - string: the vertex entry point, or an empty string when the source has none
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	//
	// Returns:
	//   - string: the fragment entry point, or an empty string when the source has none
	FragmentEntryPoint() string

	// VertexLocations returns the @location inputs consumed by the vertex entry point,
	// keyed by location and mapped to the vertex format their WGSL type requires.
	//
	// Returns:
	//   - map[uint32]wgpu.VertexFormat: vertex input formats keyed by shader location
	VertexLocations() map[uint32]wgpu.VertexFormat

	// BindGroups returns the sorted set of bind group indices declared in the source.
	//
	// Returns:
	//   - []uint32: the declared group indices in ascending order
	BindGroups() []uint32

	// BindGroupVarName retrieves the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if nothing is declared there
	BindGroupVarName(group, binding uint32) string

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// Validate compiles the WGSL source with naga so that syntax and type errors surface
	// before the device sees the module.
	//
	// Returns:
	//   - error: an error wrapping common.ErrPipelineCreation if compilation fails
	Validate() error

	// CheckVertexLayout verifies that the layout feeds exactly the locations the vertex entry
	// point reads, each with a matching format.
	//
	// Parameters:
	//   - layout: the vertex buffer layout the pipeline will use
	//
	// Returns:
	//   - error: an error wrapping common.ErrConfiguration on any mismatch
	CheckVertexLayout(layout wgpu.VertexBufferLayout) error

	// CheckBindGroups verifies that every group the source declares is below groupCount.
	//
	// Parameters:
	//   - groupCount: the number of bind group layouts in the pipeline layout
	//
	// Returns:
	//   - error: an error wrapping common.ErrConfiguration if the shader references a missing group
	CheckBindGroups(groupCount int) error
}

var _ Shader = &shader{}

// NewShader creates a new Shader from WGSL source and reflects its entry points,
// vertex inputs and bind group declarations.
//
// Parameters:
//   - key: a unique identifier for the shader, used as the module label
//   - source: the WGSL source code
//
// Returns:
//   - Shader: the parsed shader
func NewShader(key string, source string) Shader {
	s := &shader{
		key:           key,
		source:        source,
		vertexEntry:   parseEntryPoint(source, vertexEntryRegex),
		fragmentEntry: parseEntryPoint(source, fragmentEntryRegex),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
		},
	}
	s.vertexLocations = parseVertexLocations(source, s.vertexEntry)
	s.bindingVarNames = parseBindGroupDecls(source)
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shader) VertexLocations() map[uint32]wgpu.VertexFormat {
	out := make(map[uint32]wgpu.VertexFormat, len(s.vertexLocations))
	for loc, f := range s.vertexLocations {
		out[loc] = f
	}
	return out
}

func (s *shader) BindGroups() []uint32 {
	groups := make([]uint32, 0, len(s.bindingVarNames))
	for g := range s.bindingVarNames {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	return groups
}

func (s *shader) BindGroupVarName(group, binding uint32) string {
	if names, ok := s.bindingVarNames[group]; ok {
		return names[binding]
	}
	return ""
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) Validate() error {
	if s.vertexEntry == "" || s.fragmentEntry == "" {
		return fmt.Errorf("shader %s: missing vertex or fragment entry point: %w", s.key, common.ErrPipelineCreation)
	}
	if _, err := naga.Compile(s.source); err != nil {
		return fmt.Errorf("shader %s: %w: %w", s.key, common.ErrPipelineCreation, err)
	}
	return nil
}

func (s *shader) CheckVertexLayout(layout wgpu.VertexBufferLayout) error {
	seen := make(map[uint32]bool, len(layout.Attributes))
	for _, attr := range layout.Attributes {
		want, ok := s.vertexLocations[attr.ShaderLocation]
		if !ok {
			return fmt.Errorf("shader %s: layout feeds location %d which %s does not read: %w",
				s.key, attr.ShaderLocation, s.vertexEntry, common.ErrConfiguration)
		}
		if want != attr.Format {
			return fmt.Errorf("shader %s: location %d expects format %d, layout has %d: %w",
				s.key, attr.ShaderLocation, want, attr.Format, common.ErrConfiguration)
		}
		if seen[attr.ShaderLocation] {
			return fmt.Errorf("shader %s: location %d bound twice: %w", s.key, attr.ShaderLocation, common.ErrConfiguration)
		}
		seen[attr.ShaderLocation] = true
	}
	for loc := range s.vertexLocations {
		if !seen[loc] {
			return fmt.Errorf("shader %s: location %d has no vertex attribute: %w", s.key, loc, common.ErrConfiguration)
		}
	}
	return nil
}

func (s *shader) CheckBindGroups(groupCount int) error {
	for _, g := range s.BindGroups() {
		if int(g) >= groupCount {
			return fmt.Errorf("shader %s: declares @group(%d) but pipeline has %d bind group layouts: %w",
				s.key, g, groupCount, common.ErrConfiguration)
		}
	}
	return nil
}
