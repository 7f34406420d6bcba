package cmdbuf

// ObjectRequest creates or deletes a host object. The id is allocated by the
// client and named in the request, so creation never waits for the host.
type ObjectRequest struct {
	RequestHeader
	Op CommandType `wire:"-"`
	ID uint32
}

func (r *ObjectRequest) Type() CommandType { return r.Op }

type CreateShaderRequest struct {
	RequestHeader
	ID         uint32
	ShaderType uint32
}

func (*CreateShaderRequest) Type() CommandType { return CmdCreateShader }

// BindRequest binds ID to Target. Target is the texture unit for samplers and
// unused for vertex arrays and programs.
type BindRequest struct {
	RequestHeader
	Op     CommandType `wire:"-"`
	Target uint32
	ID     uint32
}

func (r *BindRequest) Type() CommandType { return r.Op }

// BindBufferRangeRequest also serves bindBufferBase, with zero offset and size.
type BindBufferRangeRequest struct {
	RequestHeader
	Op     CommandType `wire:"-"`
	Target uint32
	Index  uint32
	Buffer uint32
	Offset int64
	Size   int64
}

func (r *BindBufferRangeRequest) Type() CommandType { return r.Op }

type ActiveTextureRequest struct {
	RequestHeader
	Texture uint32
}

func (*ActiveTextureRequest) Type() CommandType { return CmdActiveTexture }

func init() {
	for _, op := range []CommandType{
		CmdCreateProgram, CmdDeleteProgram, CmdDeleteShader,
		CmdCreateBuffer, CmdDeleteBuffer, CmdCreateFramebuffer, CmdDeleteFramebuffer,
		CmdCreateRenderbuffer, CmdDeleteRenderbuffer, CmdCreateTexture, CmdDeleteTexture,
		CmdCreateVertexArray, CmdDeleteVertexArray, CmdCreateSampler, CmdDeleteSampler,
		CmdCreateQuery, CmdDeleteQuery, CmdCreateTransformFeedback, CmdDeleteTransformFeedback,
	} {
		Register(&ObjectRequest{Op: op})
	}
	for _, op := range []CommandType{
		CmdBindBuffer, CmdBindFramebuffer, CmdBindRenderbuffer, CmdBindTexture,
		CmdBindVertexArray, CmdBindSampler, CmdBindTransformFeedback, CmdUseProgram,
	} {
		Register(&BindRequest{Op: op})
	}
	Register(
		&CreateShaderRequest{},
		&BindBufferRangeRequest{Op: CmdBindBufferBase},
		&BindBufferRangeRequest{Op: CmdBindBufferRange},
		&ActiveTextureRequest{},
	)
}
