package gl

import (
	"strconv"
	"strings"

	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
	"github.com/gekko3d/remotegl/webrt/rt/handle"
)

type (
	Buffer            struct{ handle.Handle }
	Framebuffer       struct{ handle.Handle }
	Renderbuffer      struct{ handle.Handle }
	Texture           struct{ handle.Handle }
	VertexArray       struct{ handle.Handle }
	Query             struct{ handle.Handle }
	Sampler           struct{ handle.Handle }
	TransformFeedback struct{ handle.Handle }
)

type Shader struct {
	handle.Handle
	ShaderType uint32
}

type ActiveInfo = cmdbuf.ActiveInfo

// UniformLocation keeps the declared name so matrix writes can be matched
// against the placeholder table.
type UniformLocation struct {
	Location int32
	Name     string
	Program  *Program
}

// Program caches everything the link response carried. The tables are empty
// until a link succeeds.
type Program struct {
	handle.Handle

	linkStatus          bool
	activeAttribs       map[int]ActiveInfo
	activeUniforms      map[int]ActiveInfo
	attribLocations     map[string]int32
	uniformLocations    map[string]*UniformLocation
	uniformBlockIndices map[string]uint32
}

func newProgram(h handle.Handle) *Program {
	p := &Program{Handle: h}
	p.reset()
	return p
}

func (p *Program) reset() {
	p.linkStatus = false
	p.activeAttribs = make(map[int]ActiveInfo)
	p.activeUniforms = make(map[int]ActiveInfo)
	p.attribLocations = make(map[string]int32)
	p.uniformLocations = make(map[string]*UniformLocation)
	p.uniformBlockIndices = make(map[string]uint32)
}

func (p *Program) LinkStatus() bool {
	return p.linkStatus
}

// applyLink replaces the caches with the contents of a link response.
func (p *Program) applyLink(res *cmdbuf.LinkProgramResponse, webgl2 bool) {
	p.reset()
	if !res.Success {
		return
	}
	p.linkStatus = true
	for i, info := range res.ActiveAttribs {
		p.activeAttribs[i] = info
	}
	for i, info := range res.ActiveUniforms {
		p.activeUniforms[i] = info
	}
	for _, a := range res.AttribLocations {
		p.attribLocations[a.Name] = a.Location
	}
	for _, u := range res.UniformLocations {
		p.addUniform(u)
	}
	if webgl2 {
		for _, b := range res.UniformBlocks {
			p.uniformBlockIndices[b.Name] = b.Index
		}
	}
}

// addUniform expands array uniforms: the host reports `foo[0]` with a size,
// and `foo`, `foo[0]` .. `foo[size-1]` must all resolve.
func (p *Program) addUniform(u cmdbuf.UniformLocation) {
	base, isArray := strings.CutSuffix(u.Name, "[0]")
	isArray = isArray && base != ""
	switch {
	case u.Size == 1 && !isArray:
		p.setUniform(u.Name, u.Name, u.Location)
	case isArray:
		p.setUniform(base, base, u.Location)
		p.setUniform(u.Name, base, u.Location)
		for i := int32(1); i < u.Size; i++ {
			p.setUniform(base+"["+strconv.Itoa(int(i))+"]", base, u.Location+i)
		}
	}
}

func (p *Program) setUniform(key, declared string, location int32) {
	p.uniformLocations[key] = &UniformLocation{Location: location, Name: declared, Program: p}
}
