package cmdbuf

// EnumRequest carries one enum or small integer argument.
type EnumRequest struct {
	RequestHeader
	Op    CommandType `wire:"-"`
	Value uint32
}

func (r *EnumRequest) Type() CommandType { return r.Op }

type BufferDataRequest struct {
	RequestHeader
	Target uint32
	Usage  uint32
	Size   int64
	Data   []byte
}

func (*BufferDataRequest) Type() CommandType { return CmdBufferData }

type BufferSubDataRequest struct {
	RequestHeader
	Target uint32
	Offset int64
	Data   []byte
}

func (*BufferSubDataRequest) Type() CommandType { return CmdBufferSubData }

type FramebufferRenderbufferRequest struct {
	RequestHeader
	Target             uint32
	Attachment         uint32
	RenderbufferTarget uint32
	Renderbuffer       uint32
}

func (*FramebufferRenderbufferRequest) Type() CommandType { return CmdFramebufferRenderbuffer }

type FramebufferTexture2DRequest struct {
	RequestHeader
	Target     uint32
	Attachment uint32
	TexTarget  uint32
	Texture    uint32
	Level      int32
}

func (*FramebufferTexture2DRequest) Type() CommandType { return CmdFramebufferTexture2D }

// RenderbufferStorageRequest also serves the multisample variant.
type RenderbufferStorageRequest struct {
	RequestHeader
	Op             CommandType `wire:"-"`
	Target         uint32
	Samples        int32
	InternalFormat uint32
	Width          int32
	Height         int32
}

func (r *RenderbufferStorageRequest) Type() CommandType { return r.Op }

type BlitFramebufferRequest struct {
	RequestHeader
	SrcX0, SrcY0, SrcX1, SrcY1 int32
	DstX0, DstY0, DstX1, DstY1 int32
	Mask                       uint32
	Filter                     uint32
}

func (*BlitFramebufferRequest) Type() CommandType { return CmdBlitFramebuffer }

type DrawBuffersRequest struct {
	RequestHeader
	Buffers []uint32
}

func (*DrawBuffersRequest) Type() CommandType { return CmdDrawBuffers }

type TexImage2DRequest struct {
	RequestHeader
	Target         uint32
	Level          int32
	InternalFormat int32
	Width          int32
	Height         int32
	Border         int32
	Format         uint32
	PixelType      uint32
	Pixels         []byte
}

func (*TexImage2DRequest) Type() CommandType { return CmdTexImage2D }

type TexSubImage2DRequest struct {
	RequestHeader
	Target    uint32
	Level     int32
	XOffset   int32
	YOffset   int32
	Width     int32
	Height    int32
	Format    uint32
	PixelType uint32
	Pixels    []byte
}

func (*TexSubImage2DRequest) Type() CommandType { return CmdTexSubImage2D }

type TexImage3DRequest struct {
	RequestHeader
	Target         uint32
	Level          int32
	InternalFormat int32
	Width          int32
	Height         int32
	Depth          int32
	Border         int32
	Format         uint32
	PixelType      uint32
	Pixels         []byte
}

func (*TexImage3DRequest) Type() CommandType { return CmdTexImage3D }

type TexSubImage3DRequest struct {
	RequestHeader
	Target    uint32
	Level     int32
	XOffset   int32
	YOffset   int32
	ZOffset   int32
	Width     int32
	Height    int32
	Depth     int32
	Format    uint32
	PixelType uint32
	Pixels    []byte
}

func (*TexSubImage3DRequest) Type() CommandType { return CmdTexSubImage3D }

type CopyTexImage2DRequest struct {
	RequestHeader
	Target         uint32
	Level          int32
	InternalFormat uint32
	X, Y           int32
	Width, Height  int32
	Border         int32
}

func (*CopyTexImage2DRequest) Type() CommandType { return CmdCopyTexImage2D }

type CopyTexSubImage2DRequest struct {
	RequestHeader
	Target           uint32
	Level            int32
	XOffset, YOffset int32
	X, Y             int32
	Width, Height    int32
}

func (*CopyTexSubImage2DRequest) Type() CommandType { return CmdCopyTexSubImage2D }

// TexStorageRequest serves texStorage2D (Depth is 1) and texStorage3D.
type TexStorageRequest struct {
	RequestHeader
	Op             CommandType `wire:"-"`
	Target         uint32
	Levels         int32
	InternalFormat uint32
	Width          int32
	Height         int32
	Depth          int32
}

func (r *TexStorageRequest) Type() CommandType { return r.Op }

// ParameterRequest sets an integer or float parameter on a texture or sampler.
// Target is the texture target or the sampler id.
type ParameterRequest struct {
	RequestHeader
	Op     CommandType `wire:"-"`
	Target uint32
	Pname  uint32
	Int    int32
	Float  float32
}

func (r *ParameterRequest) Type() CommandType { return r.Op }

type PixelStoreiRequest struct {
	RequestHeader
	Pname uint32
	Param int32
}

func (*PixelStoreiRequest) Type() CommandType { return CmdPixelStorei }

// ObjectQueryRequest asks for a parameter of a sampler or query object.
type ObjectQueryRequest struct {
	RequestHeader
	Op    CommandType `wire:"-"`
	ID    uint32
	Pname uint32
}

func (r *ObjectQueryRequest) Type() CommandType { return r.Op }

func init() {
	for _, op := range []CommandType{
		CmdEnable, CmdDisable, CmdCullFace, CmdFrontFace, CmdDepthFunc, CmdDepthMask,
		CmdBlendEquation, CmdStencilMask, CmdClearStencil, CmdClear, CmdGenerateMipmap,
		CmdReadBuffer, CmdCheckFramebufferStatus, CmdEndQuery, CmdBeginTransformFeedback,
		CmdEndTransformFeedback, CmdEnableVertexAttribArray, CmdDisableVertexAttribArray,
		CmdGetBooleanv, CmdGetIntegerv, CmdGetFloatv, CmdGetString, CmdGetError,
	} {
		Register(&EnumRequest{Op: op})
	}
	Register(
		&BufferDataRequest{},
		&BufferSubDataRequest{},
		&FramebufferRenderbufferRequest{},
		&FramebufferTexture2DRequest{},
		&RenderbufferStorageRequest{Op: CmdRenderbufferStorage},
		&RenderbufferStorageRequest{Op: CmdRenderbufferStorageMultisample},
		&BlitFramebufferRequest{},
		&DrawBuffersRequest{},
		&TexImage2DRequest{},
		&TexSubImage2DRequest{},
		&TexImage3DRequest{},
		&TexSubImage3DRequest{},
		&CopyTexImage2DRequest{},
		&CopyTexSubImage2DRequest{},
		&TexStorageRequest{Op: CmdTexStorage2D},
		&TexStorageRequest{Op: CmdTexStorage3D},
		&ParameterRequest{Op: CmdTexParameteri},
		&ParameterRequest{Op: CmdTexParameterf},
		&ParameterRequest{Op: CmdSamplerParameteri},
		&ParameterRequest{Op: CmdSamplerParameterf},
		&PixelStoreiRequest{},
		&ObjectQueryRequest{Op: CmdGetSamplerParameter},
		&ObjectQueryRequest{Op: CmdGetQueryParameter},
		&BindRequest{Op: CmdBeginQuery},
	)
}
