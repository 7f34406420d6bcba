package cmdbuf

import "fmt"

// CommandType tags every message on the wire. Values are part of the protocol:
// append new types, never reorder.
type CommandType uint32

const (
	CmdUnknown CommandType = iota

	// Context
	CmdWebGLContextInit
	CmdWebGLContextInitRes
	CmdWebGL2ContextInit
	CmdWebGL2ContextInitRes
	CmdMakeXRCompatible
	CmdFlush
	CmdFinish
	CmdPaintingMetrics

	// Objects
	CmdCreateProgram
	CmdDeleteProgram
	CmdCreateShader
	CmdDeleteShader
	CmdCreateBuffer
	CmdDeleteBuffer
	CmdCreateFramebuffer
	CmdDeleteFramebuffer
	CmdCreateRenderbuffer
	CmdDeleteRenderbuffer
	CmdCreateTexture
	CmdDeleteTexture
	CmdCreateVertexArray
	CmdDeleteVertexArray
	CmdCreateSampler
	CmdDeleteSampler
	CmdCreateQuery
	CmdDeleteQuery
	CmdCreateTransformFeedback
	CmdDeleteTransformFeedback

	// Bindings
	CmdBindBuffer
	CmdBindBufferBase
	CmdBindBufferRange
	CmdBindFramebuffer
	CmdBindRenderbuffer
	CmdBindTexture
	CmdBindVertexArray
	CmdBindSampler
	CmdBindTransformFeedback
	CmdUseProgram
	CmdActiveTexture

	// Programs
	CmdAttachShader
	CmdDetachShader
	CmdBindAttribLocation
	CmdLinkProgram
	CmdLinkProgramRes
	CmdValidateProgram
	CmdGetProgramParameter
	CmdGetProgramParameterRes
	CmdGetProgramInfoLog
	CmdGetProgramInfoLogRes
	CmdUniformBlockBinding
	CmdTransformFeedbackVaryings

	// Shaders
	CmdShaderSource
	CmdCompileShader
	CmdGetShaderSource
	CmdGetShaderSourceRes
	CmdGetShaderParameter
	CmdGetShaderParameterRes
	CmdGetShaderInfoLog
	CmdGetShaderInfoLogRes
	CmdGetShaderPrecisionFormat
	CmdGetShaderPrecisionFormatRes

	// Buffers
	CmdBufferData
	CmdBufferSubData

	// Framebuffers
	CmdFramebufferRenderbuffer
	CmdFramebufferTexture2D
	CmdRenderbufferStorage
	CmdRenderbufferStorageMultisample
	CmdCheckFramebufferStatus
	CmdCheckFramebufferStatusRes
	CmdBlitFramebuffer
	CmdReadBuffer
	CmdDrawBuffers

	// Textures
	CmdTexImage2D
	CmdTexSubImage2D
	CmdCopyTexImage2D
	CmdCopyTexSubImage2D
	CmdTexImage3D
	CmdTexSubImage3D
	CmdTexStorage2D
	CmdTexStorage3D
	CmdTexParameteri
	CmdTexParameterf
	CmdGenerateMipmap
	CmdPixelStorei

	// Samplers
	CmdSamplerParameteri
	CmdSamplerParameterf
	CmdGetSamplerParameter
	CmdGetSamplerParameterRes

	// Queries
	CmdBeginQuery
	CmdEndQuery
	CmdGetQueryParameter
	CmdGetQueryParameterRes

	// Transform feedback
	CmdBeginTransformFeedback
	CmdEndTransformFeedback

	// Vertex attributes
	CmdEnableVertexAttribArray
	CmdDisableVertexAttribArray
	CmdVertexAttribPointer
	CmdVertexAttribIPointer
	CmdVertexAttribDivisor
	CmdVertexAttrib1f
	CmdVertexAttrib2f
	CmdVertexAttrib3f
	CmdVertexAttrib4f

	// Uniforms
	CmdUniform1f
	CmdUniform2f
	CmdUniform3f
	CmdUniform4f
	CmdUniform1i
	CmdUniform2i
	CmdUniform3i
	CmdUniform4i
	CmdUniform1fv
	CmdUniform2fv
	CmdUniform3fv
	CmdUniform4fv
	CmdUniform1iv
	CmdUniform2iv
	CmdUniform3iv
	CmdUniform4iv
	CmdUniformMatrix2fv
	CmdUniformMatrix3fv
	CmdUniformMatrix4fv

	// Draw calls
	CmdDrawArrays
	CmdDrawElements
	CmdDrawArraysInstanced
	CmdDrawElementsInstanced
	CmdDrawRangeElements
	CmdClear
	CmdClearBufferfv
	CmdClearBufferiv
	CmdClearBufferuiv
	CmdClearBufferfi

	// States
	CmdEnable
	CmdDisable
	CmdBlendColor
	CmdBlendEquation
	CmdBlendEquationSeparate
	CmdBlendFunc
	CmdBlendFuncSeparate
	CmdColorMask
	CmdCullFace
	CmdFrontFace
	CmdDepthFunc
	CmdDepthMask
	CmdDepthRange
	CmdStencilFunc
	CmdStencilFuncSeparate
	CmdStencilMask
	CmdStencilMaskSeparate
	CmdStencilOp
	CmdStencilOpSeparate
	CmdLineWidth
	CmdPolygonOffset
	CmdHint
	CmdViewport
	CmdScissor
	CmdClearColor
	CmdClearDepth
	CmdClearStencil

	// Properties
	CmdGetBooleanv
	CmdGetBooleanvRes
	CmdGetIntegerv
	CmdGetIntegervRes
	CmdGetFloatv
	CmdGetFloatvRes
	CmdGetString
	CmdGetStringRes
	CmdGetError
	CmdGetErrorRes

	// XR device
	CmdXRIsSessionSupported
	CmdXRIsSessionSupportedRes
	CmdXRRequestSession
	CmdXRRequestSessionRes
	CmdXREndSession
	CmdXRUpdateRenderState
)

var commandTypeNames = [...]string{
	CmdUnknown:                        "Unknown",
	CmdWebGLContextInit:               "WebGLContextInit",
	CmdWebGLContextInitRes:            "WebGLContextInitRes",
	CmdWebGL2ContextInit:              "WebGL2ContextInit",
	CmdWebGL2ContextInitRes:           "WebGL2ContextInitRes",
	CmdMakeXRCompatible:               "MakeXRCompatible",
	CmdFlush:                          "Flush",
	CmdFinish:                         "Finish",
	CmdPaintingMetrics:                "PaintingMetrics",
	CmdCreateProgram:                  "CreateProgram",
	CmdDeleteProgram:                  "DeleteProgram",
	CmdCreateShader:                   "CreateShader",
	CmdDeleteShader:                   "DeleteShader",
	CmdCreateBuffer:                   "CreateBuffer",
	CmdDeleteBuffer:                   "DeleteBuffer",
	CmdCreateFramebuffer:              "CreateFramebuffer",
	CmdDeleteFramebuffer:              "DeleteFramebuffer",
	CmdCreateRenderbuffer:             "CreateRenderbuffer",
	CmdDeleteRenderbuffer:             "DeleteRenderbuffer",
	CmdCreateTexture:                  "CreateTexture",
	CmdDeleteTexture:                  "DeleteTexture",
	CmdCreateVertexArray:              "CreateVertexArray",
	CmdDeleteVertexArray:              "DeleteVertexArray",
	CmdCreateSampler:                  "CreateSampler",
	CmdDeleteSampler:                  "DeleteSampler",
	CmdCreateQuery:                    "CreateQuery",
	CmdDeleteQuery:                    "DeleteQuery",
	CmdCreateTransformFeedback:        "CreateTransformFeedback",
	CmdDeleteTransformFeedback:        "DeleteTransformFeedback",
	CmdBindBuffer:                     "BindBuffer",
	CmdBindBufferBase:                 "BindBufferBase",
	CmdBindBufferRange:                "BindBufferRange",
	CmdBindFramebuffer:                "BindFramebuffer",
	CmdBindRenderbuffer:               "BindRenderbuffer",
	CmdBindTexture:                    "BindTexture",
	CmdBindVertexArray:                "BindVertexArray",
	CmdBindSampler:                    "BindSampler",
	CmdBindTransformFeedback:          "BindTransformFeedback",
	CmdUseProgram:                     "UseProgram",
	CmdActiveTexture:                  "ActiveTexture",
	CmdAttachShader:                   "AttachShader",
	CmdDetachShader:                   "DetachShader",
	CmdBindAttribLocation:             "BindAttribLocation",
	CmdLinkProgram:                    "LinkProgram",
	CmdLinkProgramRes:                 "LinkProgramRes",
	CmdValidateProgram:                "ValidateProgram",
	CmdGetProgramParameter:            "GetProgramParameter",
	CmdGetProgramParameterRes:         "GetProgramParameterRes",
	CmdGetProgramInfoLog:              "GetProgramInfoLog",
	CmdGetProgramInfoLogRes:           "GetProgramInfoLogRes",
	CmdUniformBlockBinding:            "UniformBlockBinding",
	CmdTransformFeedbackVaryings:      "TransformFeedbackVaryings",
	CmdShaderSource:                   "ShaderSource",
	CmdCompileShader:                  "CompileShader",
	CmdGetShaderSource:                "GetShaderSource",
	CmdGetShaderSourceRes:             "GetShaderSourceRes",
	CmdGetShaderParameter:             "GetShaderParameter",
	CmdGetShaderParameterRes:          "GetShaderParameterRes",
	CmdGetShaderInfoLog:               "GetShaderInfoLog",
	CmdGetShaderInfoLogRes:            "GetShaderInfoLogRes",
	CmdGetShaderPrecisionFormat:       "GetShaderPrecisionFormat",
	CmdGetShaderPrecisionFormatRes:    "GetShaderPrecisionFormatRes",
	CmdBufferData:                     "BufferData",
	CmdBufferSubData:                  "BufferSubData",
	CmdFramebufferRenderbuffer:        "FramebufferRenderbuffer",
	CmdFramebufferTexture2D:           "FramebufferTexture2D",
	CmdRenderbufferStorage:            "RenderbufferStorage",
	CmdRenderbufferStorageMultisample: "RenderbufferStorageMultisample",
	CmdCheckFramebufferStatus:         "CheckFramebufferStatus",
	CmdCheckFramebufferStatusRes:      "CheckFramebufferStatusRes",
	CmdBlitFramebuffer:                "BlitFramebuffer",
	CmdReadBuffer:                     "ReadBuffer",
	CmdDrawBuffers:                    "DrawBuffers",
	CmdTexImage2D:                     "TexImage2D",
	CmdTexSubImage2D:                  "TexSubImage2D",
	CmdCopyTexImage2D:                 "CopyTexImage2D",
	CmdCopyTexSubImage2D:              "CopyTexSubImage2D",
	CmdTexImage3D:                     "TexImage3D",
	CmdTexSubImage3D:                  "TexSubImage3D",
	CmdTexStorage2D:                   "TexStorage2D",
	CmdTexStorage3D:                   "TexStorage3D",
	CmdTexParameteri:                  "TexParameteri",
	CmdTexParameterf:                  "TexParameterf",
	CmdGenerateMipmap:                 "GenerateMipmap",
	CmdPixelStorei:                    "PixelStorei",
	CmdSamplerParameteri:              "SamplerParameteri",
	CmdSamplerParameterf:              "SamplerParameterf",
	CmdGetSamplerParameter:            "GetSamplerParameter",
	CmdGetSamplerParameterRes:         "GetSamplerParameterRes",
	CmdBeginQuery:                     "BeginQuery",
	CmdEndQuery:                       "EndQuery",
	CmdGetQueryParameter:              "GetQueryParameter",
	CmdGetQueryParameterRes:           "GetQueryParameterRes",
	CmdBeginTransformFeedback:         "BeginTransformFeedback",
	CmdEndTransformFeedback:           "EndTransformFeedback",
	CmdEnableVertexAttribArray:        "EnableVertexAttribArray",
	CmdDisableVertexAttribArray:       "DisableVertexAttribArray",
	CmdVertexAttribPointer:            "VertexAttribPointer",
	CmdVertexAttribIPointer:           "VertexAttribIPointer",
	CmdVertexAttribDivisor:            "VertexAttribDivisor",
	CmdVertexAttrib1f:                 "VertexAttrib1f",
	CmdVertexAttrib2f:                 "VertexAttrib2f",
	CmdVertexAttrib3f:                 "VertexAttrib3f",
	CmdVertexAttrib4f:                 "VertexAttrib4f",
	CmdUniform1f:                      "Uniform1f",
	CmdUniform2f:                      "Uniform2f",
	CmdUniform3f:                      "Uniform3f",
	CmdUniform4f:                      "Uniform4f",
	CmdUniform1i:                      "Uniform1i",
	CmdUniform2i:                      "Uniform2i",
	CmdUniform3i:                      "Uniform3i",
	CmdUniform4i:                      "Uniform4i",
	CmdUniform1fv:                     "Uniform1fv",
	CmdUniform2fv:                     "Uniform2fv",
	CmdUniform3fv:                     "Uniform3fv",
	CmdUniform4fv:                     "Uniform4fv",
	CmdUniform1iv:                     "Uniform1iv",
	CmdUniform2iv:                     "Uniform2iv",
	CmdUniform3iv:                     "Uniform3iv",
	CmdUniform4iv:                     "Uniform4iv",
	CmdUniformMatrix2fv:               "UniformMatrix2fv",
	CmdUniformMatrix3fv:               "UniformMatrix3fv",
	CmdUniformMatrix4fv:               "UniformMatrix4fv",
	CmdDrawArrays:                     "DrawArrays",
	CmdDrawElements:                   "DrawElements",
	CmdDrawArraysInstanced:            "DrawArraysInstanced",
	CmdDrawElementsInstanced:          "DrawElementsInstanced",
	CmdDrawRangeElements:              "DrawRangeElements",
	CmdClear:                          "Clear",
	CmdClearBufferfv:                  "ClearBufferfv",
	CmdClearBufferiv:                  "ClearBufferiv",
	CmdClearBufferuiv:                 "ClearBufferuiv",
	CmdClearBufferfi:                  "ClearBufferfi",
	CmdEnable:                         "Enable",
	CmdDisable:                        "Disable",
	CmdBlendColor:                     "BlendColor",
	CmdBlendEquation:                  "BlendEquation",
	CmdBlendEquationSeparate:          "BlendEquationSeparate",
	CmdBlendFunc:                      "BlendFunc",
	CmdBlendFuncSeparate:              "BlendFuncSeparate",
	CmdColorMask:                      "ColorMask",
	CmdCullFace:                       "CullFace",
	CmdFrontFace:                      "FrontFace",
	CmdDepthFunc:                      "DepthFunc",
	CmdDepthMask:                      "DepthMask",
	CmdDepthRange:                     "DepthRange",
	CmdStencilFunc:                    "StencilFunc",
	CmdStencilFuncSeparate:            "StencilFuncSeparate",
	CmdStencilMask:                    "StencilMask",
	CmdStencilMaskSeparate:            "StencilMaskSeparate",
	CmdStencilOp:                      "StencilOp",
	CmdStencilOpSeparate:              "StencilOpSeparate",
	CmdLineWidth:                      "LineWidth",
	CmdPolygonOffset:                  "PolygonOffset",
	CmdHint:                           "Hint",
	CmdViewport:                       "Viewport",
	CmdScissor:                        "Scissor",
	CmdClearColor:                     "ClearColor",
	CmdClearDepth:                     "ClearDepth",
	CmdClearStencil:                   "ClearStencil",
	CmdGetBooleanv:                    "GetBooleanv",
	CmdGetBooleanvRes:                 "GetBooleanvRes",
	CmdGetIntegerv:                    "GetIntegerv",
	CmdGetIntegervRes:                 "GetIntegervRes",
	CmdGetFloatv:                      "GetFloatv",
	CmdGetFloatvRes:                   "GetFloatvRes",
	CmdGetString:                      "GetString",
	CmdGetStringRes:                   "GetStringRes",
	CmdGetError:                       "GetError",
	CmdGetErrorRes:                    "GetErrorRes",
	CmdXRIsSessionSupported:           "XRIsSessionSupported",
	CmdXRIsSessionSupportedRes:        "XRIsSessionSupportedRes",
	CmdXRRequestSession:               "XRRequestSession",
	CmdXRRequestSessionRes:            "XRRequestSessionRes",
	CmdXREndSession:                   "XREndSession",
	CmdXRUpdateRenderState:            "XRUpdateRenderState",
}

func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) && commandTypeNames[c] != "" {
		return commandTypeNames[c]
	}
	return fmt.Sprintf("CommandType(%d)", uint32(c))
}

// FlushTerminating reports whether the host should advance one rendering step
// after this command when it is issued inside an XR frame.
func (c CommandType) FlushTerminating() bool {
	switch c {
	case CmdDrawArrays, CmdDrawElements, CmdDrawArraysInstanced, CmdDrawElementsInstanced,
		CmdDrawRangeElements, CmdClear:
		return true
	}
	return false
}
