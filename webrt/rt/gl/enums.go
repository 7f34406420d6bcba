package gl

// Enum values shared with the host. Only the names the client inspects
// locally are listed; everything else is passed through untouched.
const (
	NoError          = 0
	InvalidEnum      = 0x0500
	InvalidValue     = 0x0501
	InvalidOperation = 0x0502
	OutOfMemory      = 0x0505

	ArrayBuffer             = 0x8892
	ElementArrayBuffer      = 0x8893
	UniformBuffer           = 0x8A11
	TransformFeedbackBuffer = 0x8C8E
	FramebufferTarget       = 0x8D40
	ReadFramebuffer         = 0x8CA8
	DrawFramebuffer         = 0x8CA9
	RenderbufferTarget      = 0x8D41
	TransformFeedbackTarget = 0x8E22

	Texture2D           = 0x0DE1
	TextureCubeMap      = 0x8513
	Texture3D           = 0x806F
	Texture2DArray      = 0x8C1A
	Texture0            = 0x84C0
	FragmentShader      = 0x8B30
	VertexShader        = 0x8B31
	FramebufferComplete = 0x8CD5

	DeleteStatus        = 0x8B80
	CompileStatus       = 0x8B81
	LinkStatus          = 0x8B82
	ValidateStatus      = 0x8B83
	AttachedShaders     = 0x8B85
	ActiveUniforms      = 0x8B86
	ActiveAttributes    = 0x8B89
	ActiveUniformBlocks = 0x8A36
	ShaderType          = 0x8B4F

	Blend                 = 0x0BE2
	CullFace              = 0x0B44
	DepthTest             = 0x0B71
	Dither                = 0x0BD0
	PolygonOffsetFill     = 0x8037
	SampleAlphaToCoverage = 0x809E
	SampleCoverage        = 0x80A0
	ScissorTest           = 0x0C11
	StencilTest           = 0x0B90
	RasterizerDiscard     = 0x8C89

	Viewport                            = 0x0BA2
	ScissorBox                          = 0x0C10
	MaxCombinedTextureImageUnits        = 0x8B4D
	MaxCubeMapTextureSize               = 0x851C
	MaxFragmentUniformVectors           = 0x8DFD
	MaxRenderbufferSize                 = 0x84E8
	MaxTextureImageUnits                = 0x8872
	MaxTextureSize                      = 0x0D33
	MaxVaryingVectors                   = 0x8DFC
	MaxVertexAttribs                    = 0x8869
	MaxVertexTextureImageUnits          = 0x8B4C
	MaxVertexUniformVectors             = 0x8DFB
	Max3DTextureSize                    = 0x8073
	MaxArrayTextureLayers               = 0x88FF
	MaxColorAttachments                 = 0x8CDF
	MaxDrawBuffers                      = 0x8824
	MaxSamples                          = 0x8D57
	MaxUniformBufferBindings            = 0x8A2F
	MaxUniformBlockSize                 = 0x8A30
	MaxTransformFeedbackSeparateAttribs = 0x8C8B

	Vendor                 = 0x1F00
	Renderer               = 0x1F01
	Version                = 0x1F02
	ShadingLanguageVersion = 0x8B8C

	DepthWritemask        = 0x0B72
	ColorWritemask        = 0x0C23
	DepthClearValue       = 0x0B73
	DepthRange            = 0x0B70
	ColorClearValue       = 0x0C22
	BlendColor            = 0x8005
	LineWidth             = 0x0B21
	AliasedLineWidthRange = 0x846E
	AliasedPointSizeRange = 0x846D
	PolygonOffsetFactor   = 0x8038
	PolygonOffsetUnits    = 0x2A00
	SampleCoverageValue   = 0x80AA
	SampleCoverageInvert  = 0x80AB

	UnpackAlignment            = 0x0CF5
	UnpackFlipY                = 0x9240
	UnpackPremultiplyAlpha     = 0x9241
	UnpackColorspaceConversion = 0x9243

	Alpha          = 0x1906
	RGB            = 0x1907
	RGBA           = 0x1908
	Luminance      = 0x1909
	LuminanceAlpha = 0x190A

	UnsignedByte      = 0x1401
	UnsignedShort     = 0x1403
	Float             = 0x1406
	UnsignedShort4444 = 0x8033
	UnsignedShort5551 = 0x8034
	UnsignedShort565  = 0x8363

	ColorBufferBit   = 0x00004000
	DepthBufferBit   = 0x00000100
	StencilBufferBit = 0x00000400

	Color        = 0x1800
	Depth        = 0x1801
	Stencil      = 0x1802
	DepthStencil = 0x84F9

	FrontAndBack = 0x0408
)
