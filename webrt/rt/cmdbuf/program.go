package cmdbuf

// ProgramRequest carries a single program id: link, validate and info log.
type ProgramRequest struct {
	RequestHeader
	Op      CommandType `wire:"-"`
	Program uint32
}

func (r *ProgramRequest) Type() CommandType { return r.Op }

type ProgramShaderRequest struct {
	RequestHeader
	Op      CommandType `wire:"-"`
	Program uint32
	Shader  uint32
}

func (r *ProgramShaderRequest) Type() CommandType { return r.Op }

type BindAttribLocationRequest struct {
	RequestHeader
	Program uint32
	Index   uint32
	Name    string
}

func (*BindAttribLocationRequest) Type() CommandType { return CmdBindAttribLocation }

type ActiveInfo struct {
	Name string `json:"name"`
	Size int32  `json:"size"`
	Type uint32 `json:"type"`
}

type AttribLocation struct {
	Name     string `json:"name"`
	Location int32  `json:"location"`
}

type UniformLocation struct {
	Name     string `json:"name"`
	Location int32  `json:"location"`
	Size     int32  `json:"size"`
}

type UniformBlock struct {
	Name  string `json:"name"`
	Index uint32 `json:"index"`
}

type LinkProgramResponse struct {
	ResponseHeader
	Success          bool
	ActiveAttribs    []ActiveInfo
	ActiveUniforms   []ActiveInfo
	AttribLocations  []AttribLocation
	UniformLocations []UniformLocation
	UniformBlocks    []UniformBlock
}

func (*LinkProgramResponse) Type() CommandType { return CmdLinkProgramRes }

type GetProgramParameterRequest struct {
	RequestHeader
	Program uint32
	Pname   uint32
}

func (*GetProgramParameterRequest) Type() CommandType { return CmdGetProgramParameter }

// ParameterResponse answers the scalar parameter queries.
type ParameterResponse struct {
	ResponseHeader
	Op    CommandType `wire:"-"`
	Value int32
}

func (r *ParameterResponse) Type() CommandType { return r.Op }

// TextResponse answers source and info log queries.
type TextResponse struct {
	ResponseHeader
	Op   CommandType `wire:"-"`
	Text string
}

func (r *TextResponse) Type() CommandType { return r.Op }

type UniformBlockBindingRequest struct {
	RequestHeader
	Program    uint32
	BlockIndex uint32
	Binding    uint32
}

func (*UniformBlockBindingRequest) Type() CommandType { return CmdUniformBlockBinding }

type TransformFeedbackVaryingsRequest struct {
	RequestHeader
	Program    uint32
	BufferMode uint32
	Varyings   []string
}

func (*TransformFeedbackVaryingsRequest) Type() CommandType { return CmdTransformFeedbackVaryings }

type ShaderSourceRequest struct {
	RequestHeader
	Shader uint32
	Source string
}

func (*ShaderSourceRequest) Type() CommandType { return CmdShaderSource }

type ShaderRequest struct {
	RequestHeader
	Op     CommandType `wire:"-"`
	Shader uint32
}

func (r *ShaderRequest) Type() CommandType { return r.Op }

type GetShaderParameterRequest struct {
	RequestHeader
	Shader uint32
	Pname  uint32
}

func (*GetShaderParameterRequest) Type() CommandType { return CmdGetShaderParameter }

type GetShaderPrecisionFormatRequest struct {
	RequestHeader
	ShaderType    uint32
	PrecisionType uint32
}

func (*GetShaderPrecisionFormatRequest) Type() CommandType { return CmdGetShaderPrecisionFormat }

type ShaderPrecisionFormatResponse struct {
	ResponseHeader
	RangeMin  int32
	RangeMax  int32
	Precision int32
}

func (*ShaderPrecisionFormatResponse) Type() CommandType { return CmdGetShaderPrecisionFormatRes }

func init() {
	Register(
		&ProgramRequest{Op: CmdLinkProgram},
		&ProgramRequest{Op: CmdValidateProgram},
		&ProgramRequest{Op: CmdGetProgramInfoLog},
		&ProgramShaderRequest{Op: CmdAttachShader},
		&ProgramShaderRequest{Op: CmdDetachShader},
		&BindAttribLocationRequest{},
		&LinkProgramResponse{},
		&GetProgramParameterRequest{},
		&ParameterResponse{Op: CmdGetProgramParameterRes},
		&ParameterResponse{Op: CmdGetShaderParameterRes},
		&ParameterResponse{Op: CmdCheckFramebufferStatusRes},
		&ParameterResponse{Op: CmdGetSamplerParameterRes},
		&ParameterResponse{Op: CmdGetQueryParameterRes},
		&ParameterResponse{Op: CmdGetErrorRes},
		&TextResponse{Op: CmdGetProgramInfoLogRes},
		&TextResponse{Op: CmdGetShaderSourceRes},
		&TextResponse{Op: CmdGetShaderInfoLogRes},
		&TextResponse{Op: CmdGetStringRes},
		&UniformBlockBindingRequest{},
		&TransformFeedbackVaryingsRequest{},
		&ShaderSourceRequest{},
		&ShaderRequest{Op: CmdCompileShader},
		&ShaderRequest{Op: CmdGetShaderSource},
		&ShaderRequest{Op: CmdGetShaderInfoLog},
		&GetShaderParameterRequest{},
		&GetShaderPrecisionFormatRequest{},
		&ShaderPrecisionFormatResponse{},
	)
}
