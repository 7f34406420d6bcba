package cmdbuf

// ColorRequest serves blendColor and clearColor.
type ColorRequest struct {
	RequestHeader
	Op         CommandType `wire:"-"`
	R, G, B, A float32
}

func (r *ColorRequest) Type() CommandType { return r.Op }

// FloatRequest serves clearDepth and lineWidth.
type FloatRequest struct {
	RequestHeader
	Op    CommandType `wire:"-"`
	Value float32
}

func (r *FloatRequest) Type() CommandType { return r.Op }

type BlendEquationSeparateRequest struct {
	RequestHeader
	ModeRGB   uint32
	ModeAlpha uint32
}

func (*BlendEquationSeparateRequest) Type() CommandType { return CmdBlendEquationSeparate }

type BlendFuncRequest struct {
	RequestHeader
	SFactor uint32
	DFactor uint32
}

func (*BlendFuncRequest) Type() CommandType { return CmdBlendFunc }

type BlendFuncSeparateRequest struct {
	RequestHeader
	SrcRGB   uint32
	DstRGB   uint32
	SrcAlpha uint32
	DstAlpha uint32
}

func (*BlendFuncSeparateRequest) Type() CommandType { return CmdBlendFuncSeparate }

type ColorMaskRequest struct {
	RequestHeader
	R, G, B, A bool
}

func (*ColorMaskRequest) Type() CommandType { return CmdColorMask }

type DepthRangeRequest struct {
	RequestHeader
	Near float32
	Far  float32
}

func (*DepthRangeRequest) Type() CommandType { return CmdDepthRange }

// StencilFuncRequest serves stencilFunc (Face is FRONT_AND_BACK) and
// stencilFuncSeparate.
type StencilFuncRequest struct {
	RequestHeader
	Op   CommandType `wire:"-"`
	Face uint32
	Func uint32
	Ref  int32
	Mask uint32
}

func (r *StencilFuncRequest) Type() CommandType { return r.Op }

type StencilMaskSeparateRequest struct {
	RequestHeader
	Face uint32
	Mask uint32
}

func (*StencilMaskSeparateRequest) Type() CommandType { return CmdStencilMaskSeparate }

type StencilOpRequest struct {
	RequestHeader
	Op    CommandType `wire:"-"`
	Face  uint32
	Fail  uint32
	ZFail uint32
	ZPass uint32
}

func (r *StencilOpRequest) Type() CommandType { return r.Op }

type PolygonOffsetRequest struct {
	RequestHeader
	Factor float32
	Units  float32
}

func (*PolygonOffsetRequest) Type() CommandType { return CmdPolygonOffset }

type HintRequest struct {
	RequestHeader
	Target uint32
	Mode   uint32
}

func (*HintRequest) Type() CommandType { return CmdHint }

// RectRequest serves viewport and scissor.
type RectRequest struct {
	RequestHeader
	Op   CommandType `wire:"-"`
	Rect Viewport
}

func (r *RectRequest) Type() CommandType { return r.Op }

// ValuesResponse answers getBooleanv, getIntegerv and getFloatv.
type ValuesResponse struct {
	ResponseHeader
	Op     CommandType `wire:"-"`
	Ints   []int32
	Floats []float32
}

func (r *ValuesResponse) Type() CommandType { return r.Op }

func init() {
	Register(
		&ColorRequest{Op: CmdBlendColor},
		&ColorRequest{Op: CmdClearColor},
		&FloatRequest{Op: CmdClearDepth},
		&FloatRequest{Op: CmdLineWidth},
		&BlendEquationSeparateRequest{},
		&BlendFuncRequest{},
		&BlendFuncSeparateRequest{},
		&ColorMaskRequest{},
		&DepthRangeRequest{},
		&StencilFuncRequest{Op: CmdStencilFunc},
		&StencilFuncRequest{Op: CmdStencilFuncSeparate},
		&StencilMaskSeparateRequest{},
		&StencilOpRequest{Op: CmdStencilOp},
		&StencilOpRequest{Op: CmdStencilOpSeparate},
		&PolygonOffsetRequest{},
		&HintRequest{},
		&RectRequest{Op: CmdViewport},
		&RectRequest{Op: CmdScissor},
		&ValuesResponse{Op: CmdGetBooleanvRes},
		&ValuesResponse{Op: CmdGetIntegervRes},
		&ValuesResponse{Op: CmdGetFloatvRes},
	)
}
