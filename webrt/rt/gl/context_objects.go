package gl

import (
	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
	"github.com/gekko3d/remotegl/webrt/rt/handle"
)

func createObject[T handle.Object](c *Context, table *handle.Table[T], op cmdbuf.CommandType, obj T) (T, error) {
	if err := c.setup(&cmdbuf.ObjectRequest{Op: op, ID: obj.Ref().ID()}); err != nil {
		var zero T
		return zero, err
	}
	table.Insert(obj)
	return obj, nil
}

// deleteObject marks obj deleted before telling the host. Objects that are
// already deleted, or belong to another context, are ignored.
func deleteObject[T handle.Object](c *Context, table *handle.Table[T], op cmdbuf.CommandType, obj T) error {
	if !table.Contains(obj) {
		return nil
	}
	h := obj.Ref()
	h.MarkDeleted()
	table.Remove(h.ID())
	return c.setup(&cmdbuf.ObjectRequest{Op: op, ID: h.ID()})
}

func (c *Context) CreateBuffer() (*Buffer, error) {
	return createObject(c, c.buffers, cmdbuf.CmdCreateBuffer, &Buffer{c.alloc.NewHandle(handle.Buffer)})
}

func (c *Context) DeleteBuffer(b *Buffer) error {
	if b == nil {
		return nil
	}
	return deleteObject(c, c.buffers, cmdbuf.CmdDeleteBuffer, b)
}

func (c *Context) IsBuffer(b *Buffer) bool {
	return b != nil && c.buffers.Contains(b)
}

// BindBuffer binds b, or unbinds the target when b is nil. A deleted buffer
// is ignored.
func (c *Context) BindBuffer(target uint32, b *Buffer) error {
	var id uint32
	if b != nil {
		if !c.buffers.Contains(b) {
			return nil
		}
		id = b.ID()
	}
	switch target {
	case ArrayBuffer:
		c.state.ArrayBuffer = b
	case ElementArrayBuffer:
		c.state.ElementArrayBuffer = b
	}
	return c.stream(&cmdbuf.BindRequest{Op: cmdbuf.CmdBindBuffer, Target: target, ID: id})
}

func (c *Context) CreateFramebuffer() (*Framebuffer, error) {
	return createObject(c, c.framebuffers, cmdbuf.CmdCreateFramebuffer,
		&Framebuffer{c.alloc.NewHandle(handle.Framebuffer)})
}

func (c *Context) DeleteFramebuffer(fb *Framebuffer) error {
	if fb == nil {
		return nil
	}
	return deleteObject(c, c.framebuffers, cmdbuf.CmdDeleteFramebuffer, fb)
}

func (c *Context) IsFramebuffer(fb *Framebuffer) bool {
	return fb != nil && c.framebuffers.Contains(fb)
}

func (c *Context) BindFramebuffer(target uint32, fb *Framebuffer) error {
	var id uint32
	if fb != nil {
		if !c.framebuffers.Contains(fb) {
			return nil
		}
		id = fb.ID()
	}
	c.state.Framebuffer = fb
	return c.stream(&cmdbuf.BindRequest{Op: cmdbuf.CmdBindFramebuffer, Target: target, ID: id})
}

func (c *Context) CreateRenderbuffer() (*Renderbuffer, error) {
	return createObject(c, c.renderbuffers, cmdbuf.CmdCreateRenderbuffer,
		&Renderbuffer{c.alloc.NewHandle(handle.Renderbuffer)})
}

func (c *Context) DeleteRenderbuffer(rb *Renderbuffer) error {
	if rb == nil {
		return nil
	}
	return deleteObject(c, c.renderbuffers, cmdbuf.CmdDeleteRenderbuffer, rb)
}

func (c *Context) IsRenderbuffer(rb *Renderbuffer) bool {
	return rb != nil && c.renderbuffers.Contains(rb)
}

func (c *Context) BindRenderbuffer(target uint32, rb *Renderbuffer) error {
	var id uint32
	if rb != nil {
		if !c.renderbuffers.Contains(rb) {
			return nil
		}
		id = rb.ID()
	}
	c.state.Renderbuffer = rb
	return c.stream(&cmdbuf.BindRequest{Op: cmdbuf.CmdBindRenderbuffer, Target: target, ID: id})
}

func (c *Context) CreateTexture() (*Texture, error) {
	return createObject(c, c.textures, cmdbuf.CmdCreateTexture, &Texture{c.alloc.NewHandle(handle.Texture)})
}

func (c *Context) DeleteTexture(t *Texture) error {
	if t == nil {
		return nil
	}
	return deleteObject(c, c.textures, cmdbuf.CmdDeleteTexture, t)
}

func (c *Context) IsTexture(t *Texture) bool {
	return t != nil && c.textures.Contains(t)
}

func (c *Context) BindTexture(target uint32, t *Texture) error {
	var id uint32
	if t != nil {
		if !c.textures.Contains(t) {
			return nil
		}
		id = t.ID()
	}
	if t == nil {
		delete(c.state.Textures, target)
	} else {
		c.state.Textures[target] = t
	}
	return c.stream(&cmdbuf.BindRequest{Op: cmdbuf.CmdBindTexture, Target: target, ID: id})
}

// ActiveTexture selects the texture unit. State().Textures always describes
// the active unit; bindings of the other units are kept in State().Units.
func (c *Context) ActiveTexture(unit uint32) error {
	if unit < Texture0 || (c.limits.MaxCombinedTextureImageUnits > 0 &&
		unit >= Texture0+uint32(c.limits.MaxCombinedTextureImageUnits)) {
		return c.invalid("activeTexture", "texture unit 0x%x out of range", unit)
	}
	if c.lost {
		return ErrContextLost
	}
	if unit != c.state.ActiveTexture {
		bound, ok := c.state.Units[unit]
		if !ok {
			bound = make(map[uint32]*Texture)
			c.state.Units[unit] = bound
		}
		c.state.ActiveTexture = unit
		c.state.Textures = bound
	}
	return c.stream(&cmdbuf.ActiveTextureRequest{Texture: unit})
}

func (c *Context) CreateProgram() (*Program, error) {
	return createObject(c, c.programs, cmdbuf.CmdCreateProgram, newProgram(c.alloc.NewHandle(handle.Program)))
}

func (c *Context) DeleteProgram(p *Program) error {
	if p == nil {
		return nil
	}
	return deleteObject(c, c.programs, cmdbuf.CmdDeleteProgram, p)
}

func (c *Context) IsProgram(p *Program) bool {
	return p != nil && c.programs.Contains(p)
}

func (c *Context) UseProgram(p *Program) error {
	var id uint32
	if p != nil {
		if !c.programs.Contains(p) {
			return nil
		}
		id = p.ID()
	}
	c.state.Program = p
	return c.stream(&cmdbuf.BindRequest{Op: cmdbuf.CmdUseProgram, ID: id})
}

func (c *Context) AttachShader(p *Program, s *Shader) error {
	if !c.IsProgram(p) || !c.IsShader(s) {
		return nil
	}
	return c.setup(&cmdbuf.ProgramShaderRequest{Op: cmdbuf.CmdAttachShader, Program: p.ID(), Shader: s.ID()})
}

func (c *Context) DetachShader(p *Program, s *Shader) error {
	if !c.IsProgram(p) || !c.IsShader(s) {
		return nil
	}
	return c.setup(&cmdbuf.ProgramShaderRequest{Op: cmdbuf.CmdDetachShader, Program: p.ID(), Shader: s.ID()})
}

func (c *Context) BindAttribLocation(p *Program, index uint32, name string) error {
	if !c.IsProgram(p) {
		return nil
	}
	if c.limits.MaxVertexAttribs > 0 && index >= uint32(c.limits.MaxVertexAttribs) {
		return c.invalid("bindAttribLocation", "index %d exceeds MAX_VERTEX_ATTRIBS", index)
	}
	return c.setup(&cmdbuf.BindAttribLocationRequest{Program: p.ID(), Index: index, Name: name})
}

// LinkProgram links p and waits for the host's answer, which carries every
// attribute, uniform and block table of the program. A failed link leaves
// LINK_STATUS false; only a protocol failure is an error.
func (c *Context) LinkProgram(p *Program) error {
	if !c.IsProgram(p) {
		return nil
	}
	res, err := c.query(&cmdbuf.ProgramRequest{Op: cmdbuf.CmdLinkProgram, Program: p.ID()}, cmdbuf.CmdLinkProgramRes)
	if err != nil {
		return err
	}
	link := res.(*cmdbuf.LinkProgramResponse)
	p.applyLink(link, c.webgl2)
	if !link.Success {
		c.log.Debugf("gl: context %d: link of program %d failed", c.id, p.ID())
	}
	return nil
}

func (c *Context) ValidateProgram(p *Program) error {
	if !c.IsProgram(p) {
		return nil
	}
	return c.setup(&cmdbuf.ProgramRequest{Op: cmdbuf.CmdValidateProgram, Program: p.ID()})
}

// GetProgramParameter answers LINK_STATUS from the link cache and asks the
// host for everything else. Booleans are returned as 0 or 1.
func (c *Context) GetProgramParameter(p *Program, pname uint32) (int32, error) {
	if !c.IsProgram(p) {
		return 0, nil
	}
	if pname == LinkStatus {
		if p.linkStatus {
			return 1, nil
		}
		return 0, nil
	}
	return c.queryValue(&cmdbuf.GetProgramParameterRequest{Program: p.ID(), Pname: pname},
		cmdbuf.CmdGetProgramParameterRes)
}

func (c *Context) GetProgramInfoLog(p *Program) (string, error) {
	if !c.IsProgram(p) {
		return "", nil
	}
	return c.queryText(&cmdbuf.ProgramRequest{Op: cmdbuf.CmdGetProgramInfoLog, Program: p.ID()},
		cmdbuf.CmdGetProgramInfoLogRes)
}

func (c *Context) GetActiveAttrib(p *Program, index int) (ActiveInfo, bool) {
	if !c.IsProgram(p) {
		return ActiveInfo{}, false
	}
	info, ok := p.activeAttribs[index]
	return info, ok
}

func (c *Context) GetActiveUniform(p *Program, index int) (ActiveInfo, bool) {
	if !c.IsProgram(p) {
		return ActiveInfo{}, false
	}
	info, ok := p.activeUniforms[index]
	return info, ok
}

// GetAttribLocation returns -1 for unknown names, like the API it emulates.
func (c *Context) GetAttribLocation(p *Program, name string) int32 {
	if !c.IsProgram(p) {
		return -1
	}
	loc, ok := p.attribLocations[name]
	if !ok {
		return -1
	}
	return loc
}

// GetUniformLocation returns nil for unknown names.
func (c *Context) GetUniformLocation(p *Program, name string) *UniformLocation {
	if !c.IsProgram(p) {
		return nil
	}
	return p.uniformLocations[name]
}

func (c *Context) CreateShader(shaderType uint32) (*Shader, error) {
	if shaderType != VertexShader && shaderType != FragmentShader {
		return nil, c.invalid("createShader", "unknown shader type 0x%x", shaderType)
	}
	s := &Shader{Handle: c.alloc.NewHandle(handle.Shader), ShaderType: shaderType}
	if err := c.setup(&cmdbuf.CreateShaderRequest{ID: s.ID(), ShaderType: shaderType}); err != nil {
		return nil, err
	}
	c.shaders.Insert(s)
	return s, nil
}

func (c *Context) DeleteShader(s *Shader) error {
	if s == nil {
		return nil
	}
	return deleteObject(c, c.shaders, cmdbuf.CmdDeleteShader, s)
}

func (c *Context) IsShader(s *Shader) bool {
	return s != nil && c.shaders.Contains(s)
}

func (c *Context) ShaderSource(s *Shader, source string) error {
	if !c.IsShader(s) {
		return nil
	}
	return c.setup(&cmdbuf.ShaderSourceRequest{Shader: s.ID(), Source: source})
}

func (c *Context) CompileShader(s *Shader) error {
	if !c.IsShader(s) {
		return nil
	}
	return c.setup(&cmdbuf.ShaderRequest{Op: cmdbuf.CmdCompileShader, Shader: s.ID()})
}

func (c *Context) GetShaderSource(s *Shader) (string, error) {
	if !c.IsShader(s) {
		return "", nil
	}
	return c.queryText(&cmdbuf.ShaderRequest{Op: cmdbuf.CmdGetShaderSource, Shader: s.ID()},
		cmdbuf.CmdGetShaderSourceRes)
}

// GetShaderParameter answers SHADER_TYPE locally. COMPILE_STATUS and
// DELETE_STATUS come back as 0 or 1.
func (c *Context) GetShaderParameter(s *Shader, pname uint32) (int32, error) {
	if !c.IsShader(s) {
		return 0, nil
	}
	if pname == ShaderType {
		return int32(s.ShaderType), nil
	}
	return c.queryValue(&cmdbuf.GetShaderParameterRequest{Shader: s.ID(), Pname: pname},
		cmdbuf.CmdGetShaderParameterRes)
}

func (c *Context) GetShaderInfoLog(s *Shader) (string, error) {
	if !c.IsShader(s) {
		return "", nil
	}
	return c.queryText(&cmdbuf.ShaderRequest{Op: cmdbuf.CmdGetShaderInfoLog, Shader: s.ID()},
		cmdbuf.CmdGetShaderInfoLogRes)
}

type ShaderPrecisionFormat struct {
	RangeMin  int32
	RangeMax  int32
	Precision int32
}

func (c *Context) GetShaderPrecisionFormat(shaderType, precisionType uint32) (ShaderPrecisionFormat, error) {
	res, err := c.query(&cmdbuf.GetShaderPrecisionFormatRequest{ShaderType: shaderType, PrecisionType: precisionType},
		cmdbuf.CmdGetShaderPrecisionFormatRes)
	if err != nil {
		return ShaderPrecisionFormat{}, err
	}
	f := res.(*cmdbuf.ShaderPrecisionFormatResponse)
	return ShaderPrecisionFormat{RangeMin: f.RangeMin, RangeMax: f.RangeMax, Precision: f.Precision}, nil
}
