package cmdbuf

type ContextAttributes struct {
	Alpha                 bool   `json:"alpha"`
	Depth                 bool   `json:"depth"`
	Stencil               bool   `json:"stencil"`
	Antialias             bool   `json:"antialias"`
	PremultipliedAlpha    bool   `json:"premultipliedAlpha"`
	PreserveDrawingBuffer bool   `json:"preserveDrawingBuffer"`
	XRCompatible          bool   `json:"xrCompatible"`
	PowerPreference       string `json:"powerPreference"`
}

// ContextInitRequest opens a WebGL1 or WebGL2 context on the host.
type ContextInitRequest struct {
	RequestHeader
	Op         CommandType `wire:"-"`
	Attributes ContextAttributes
}

func (r *ContextInitRequest) Type() CommandType { return r.Op }

type Viewport struct {
	X, Y, Width, Height int32
}

type ContextLimits struct {
	MaxCombinedTextureImageUnits int32
	MaxCubeMapTextureSize        int32
	MaxFragmentUniformVectors    int32
	MaxRenderbufferSize          int32
	MaxTextureImageUnits         int32
	MaxTextureSize               int32
	MaxVaryingVectors            int32
	MaxVertexAttribs             int32
	MaxVertexTextureImageUnits   int32
	MaxVertexUniformVectors      int32
}

// Context2Limits is only filled for WebGL2 contexts.
type Context2Limits struct {
	Max3DTextureSize                  int32
	MaxArrayTextureLayers             int32
	MaxColorAttachments               int32
	MaxDrawBuffers                    int32
	MaxSamples                        int32
	MaxUniformBufferBindings          int32
	MaxUniformBlockSize               int64
	MaxTransformFeedbackSeparateAttrs int32
}

type ContextInitResponse struct {
	ResponseHeader
	Op              CommandType `wire:"-"`
	DrawingViewport Viewport
	Limits          ContextLimits
	Limits2         Context2Limits
	Vendor          string
	Version         string
	Renderer        string
}

func (r *ContextInitResponse) Type() CommandType { return r.Op }

type MakeXRCompatibleRequest struct{ RequestHeader }

func (*MakeXRCompatibleRequest) Type() CommandType { return CmdMakeXRCompatible }

// FlushRequest marks a rendering step boundary for the host.
type FlushRequest struct{ RequestHeader }

func (*FlushRequest) Type() CommandType { return CmdFlush }

type FinishRequest struct{ RequestHeader }

func (*FinishRequest) Type() CommandType { return CmdFinish }

type MetricsCategory uint8

const (
	MetricsFirstContentfulPaint MetricsCategory = iota + 1
)

type PaintingMetricsRequest struct {
	RequestHeader
	Category MetricsCategory
}

func (*PaintingMetricsRequest) Type() CommandType { return CmdPaintingMetrics }

func init() {
	Register(
		&ContextInitRequest{Op: CmdWebGLContextInit},
		&ContextInitRequest{Op: CmdWebGL2ContextInit},
		&ContextInitResponse{Op: CmdWebGLContextInitRes},
		&ContextInitResponse{Op: CmdWebGL2ContextInitRes},
		&MakeXRCompatibleRequest{},
		&FlushRequest{},
		&FinishRequest{},
		&PaintingMetricsRequest{},
	)
}
