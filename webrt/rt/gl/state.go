package gl

// ClientState mirrors the bindings of one context. Only bind and use calls
// mutate it.
type ClientState struct {
	Program            *Program
	VertexArray        *VertexArray
	ArrayBuffer        *Buffer
	ElementArrayBuffer *Buffer
	Framebuffer        *Framebuffer
	Renderbuffer       *Renderbuffer
	ActiveTexture      uint32
	// Textures bound on the active unit, by target. It is Units[ActiveTexture].
	Textures map[uint32]*Texture
	// Units keeps the per-target bindings of every unit that was used.
	Units map[uint32]map[uint32]*Texture
}

func newClientState() ClientState {
	active := make(map[uint32]*Texture)
	return ClientState{
		ActiveTexture: Texture0,
		Textures:      active,
		Units:         map[uint32]map[uint32]*Texture{Texture0: active},
	}
}

// TextureOn returns the texture bound to target on unit, which need not be
// the active one.
func (s ClientState) TextureOn(unit, target uint32) *Texture {
	return s.Units[unit][target]
}

func (c *Context) State() ClientState {
	return c.state
}

// WithBoundFramebuffer binds fb for the duration of fn and restores the
// previous binding afterwards, even when fn fails.
func (c *Context) WithBoundFramebuffer(fb *Framebuffer, fn func() error) error {
	prev := c.state.Framebuffer
	if err := c.BindFramebuffer(FramebufferTarget, fb); err != nil {
		return err
	}
	err := fn()
	if rerr := c.BindFramebuffer(FramebufferTarget, prev); err == nil {
		err = rerr
	}
	return err
}

// WithBoundArrayBuffer is WithBoundFramebuffer for ARRAY_BUFFER.
func (c *Context) WithBoundArrayBuffer(b *Buffer, fn func() error) error {
	prev := c.state.ArrayBuffer
	if err := c.BindBuffer(ArrayBuffer, b); err != nil {
		return err
	}
	err := fn()
	if rerr := c.BindBuffer(ArrayBuffer, prev); err == nil {
		err = rerr
	}
	return err
}
