package gl

import (
	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
)

type paramKind uint8

const (
	paramInt paramKind = iota
	paramInts
	paramBool
	paramBools
	paramFloat
	paramFloats
	paramString
)

// paramKinds lists the parameters that are not plain integers. Anything
// missing here is asked for with GET_INTEGERV.
var paramKinds = map[uint32]paramKind{
	DepthWritemask:         paramBool,
	SampleCoverageInvert:   paramBool,
	ColorWritemask:         paramBools,
	DepthClearValue:        paramFloat,
	LineWidth:              paramFloat,
	PolygonOffsetFactor:    paramFloat,
	PolygonOffsetUnits:     paramFloat,
	SampleCoverageValue:    paramFloat,
	DepthRange:             paramFloats,
	ColorClearValue:        paramFloats,
	BlendColor:             paramFloats,
	AliasedLineWidthRange:  paramFloats,
	AliasedPointSizeRange:  paramFloats,
	ShadingLanguageVersion: paramString,
}

var capabilities = map[uint32]bool{
	Blend: true, CullFace: true, DepthTest: true, Dither: true, PolygonOffsetFill: true,
	SampleAlphaToCoverage: true, SampleCoverage: true, ScissorTest: true, StencilTest: true,
	RasterizerDiscard: true,
}

// GetParameter returns int32, []int32, bool, []bool, float32, []float32 or
// string depending on pname. Viewport, scissor box, capabilities, limits and
// the identification strings are answered locally.
func (c *Context) GetParameter(pname uint32) (any, error) {
	if v, ok := c.localParameter(pname); ok {
		return v, nil
	}
	switch paramKinds[pname] {
	case paramString:
		return c.queryText(&cmdbuf.EnumRequest{Op: cmdbuf.CmdGetString, Value: pname}, cmdbuf.CmdGetStringRes)
	case paramBool, paramBools:
		res, err := c.queryValues(cmdbuf.CmdGetBooleanv, cmdbuf.CmdGetBooleanvRes, pname)
		if err != nil {
			return nil, err
		}
		out := make([]bool, len(res.Ints))
		for i, v := range res.Ints {
			out[i] = v != 0
		}
		if paramKinds[pname] == paramBool {
			return len(out) > 0 && out[0], nil
		}
		return out, nil
	case paramFloat, paramFloats:
		res, err := c.queryValues(cmdbuf.CmdGetFloatv, cmdbuf.CmdGetFloatvRes, pname)
		if err != nil {
			return nil, err
		}
		if paramKinds[pname] == paramFloat {
			if len(res.Floats) == 0 {
				return float32(0), nil
			}
			return res.Floats[0], nil
		}
		return res.Floats, nil
	default:
		res, err := c.queryValues(cmdbuf.CmdGetIntegerv, cmdbuf.CmdGetIntegervRes, pname)
		if err != nil {
			return nil, err
		}
		if len(res.Ints) == 1 {
			return res.Ints[0], nil
		}
		return res.Ints, nil
	}
}

func (c *Context) queryValues(op, want cmdbuf.CommandType, pname uint32) (*cmdbuf.ValuesResponse, error) {
	res, err := c.query(&cmdbuf.EnumRequest{Op: op, Value: pname}, want)
	if err != nil {
		return nil, err
	}
	return res.(*cmdbuf.ValuesResponse), nil
}

func rect(v cmdbuf.Viewport) []int32 {
	return []int32{v.X, v.Y, v.Width, v.Height}
}

func (c *Context) localParameter(pname uint32) (any, bool) {
	if capabilities[pname] {
		return c.enabled[pname], true
	}
	l := c.limits
	switch pname {
	case Viewport:
		return rect(c.viewport), true
	case ScissorBox:
		return rect(c.scissor), true
	case Vendor:
		return c.vendor, true
	case Version:
		return c.version, true
	case Renderer:
		return c.renderer, true
	case MaxCombinedTextureImageUnits:
		return l.MaxCombinedTextureImageUnits, true
	case MaxCubeMapTextureSize:
		return l.MaxCubeMapTextureSize, true
	case MaxFragmentUniformVectors:
		return l.MaxFragmentUniformVectors, true
	case MaxRenderbufferSize:
		return l.MaxRenderbufferSize, true
	case MaxTextureImageUnits:
		return l.MaxTextureImageUnits, true
	case MaxTextureSize:
		return l.MaxTextureSize, true
	case MaxVaryingVectors:
		return l.MaxVaryingVectors, true
	case MaxVertexAttribs:
		return l.MaxVertexAttribs, true
	case MaxVertexTextureImageUnits:
		return l.MaxVertexTextureImageUnits, true
	case MaxVertexUniformVectors:
		return l.MaxVertexUniformVectors, true
	}
	if !c.webgl2 {
		return nil, false
	}
	l2 := c.limits2
	switch pname {
	case Max3DTextureSize:
		return l2.Max3DTextureSize, true
	case MaxArrayTextureLayers:
		return l2.MaxArrayTextureLayers, true
	case MaxColorAttachments:
		return l2.MaxColorAttachments, true
	case MaxDrawBuffers:
		return l2.MaxDrawBuffers, true
	case MaxSamples:
		return l2.MaxSamples, true
	case MaxUniformBufferBindings:
		return l2.MaxUniformBufferBindings, true
	case MaxUniformBlockSize:
		return l2.MaxUniformBlockSize, true
	case MaxTransformFeedbackSeparateAttribs:
		return l2.MaxTransformFeedbackSeparateAttrs, true
	}
	return nil, false
}
