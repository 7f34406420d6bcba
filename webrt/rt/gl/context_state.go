package gl

import (
	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
)

func (c *Context) Enable(capability uint32) error {
	return c.setEnabled(cmdbuf.CmdEnable, capability, true)
}

func (c *Context) Disable(capability uint32) error {
	return c.setEnabled(cmdbuf.CmdDisable, capability, false)
}

// setEnabled records the capability only once the host was told about it.
func (c *Context) setEnabled(op cmdbuf.CommandType, capability uint32, on bool) error {
	if err := c.stream(&cmdbuf.EnumRequest{Op: op, Value: capability}); err != nil {
		return err
	}
	c.enabled[capability] = on
	return nil
}

// IsEnabled is answered from the capabilities this context toggled.
func (c *Context) IsEnabled(capability uint32) bool {
	return c.enabled[capability]
}

func (c *Context) BlendColor(r, g, b, a float32) error {
	return c.stream(&cmdbuf.ColorRequest{Op: cmdbuf.CmdBlendColor, R: r, G: g, B: b, A: a})
}

func (c *Context) BlendEquation(mode uint32) error {
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdBlendEquation, Value: mode})
}

func (c *Context) BlendEquationSeparate(modeRGB, modeAlpha uint32) error {
	return c.stream(&cmdbuf.BlendEquationSeparateRequest{ModeRGB: modeRGB, ModeAlpha: modeAlpha})
}

func (c *Context) BlendFunc(sfactor, dfactor uint32) error {
	return c.stream(&cmdbuf.BlendFuncRequest{SFactor: sfactor, DFactor: dfactor})
}

func (c *Context) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) error {
	return c.stream(&cmdbuf.BlendFuncSeparateRequest{
		SrcRGB: srcRGB, DstRGB: dstRGB, SrcAlpha: srcAlpha, DstAlpha: dstAlpha,
	})
}

func (c *Context) ColorMask(r, g, b, a bool) error {
	return c.stream(&cmdbuf.ColorMaskRequest{R: r, G: g, B: b, A: a})
}

func (c *Context) CullFace(mode uint32) error {
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdCullFace, Value: mode})
}

func (c *Context) FrontFace(mode uint32) error {
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdFrontFace, Value: mode})
}

func (c *Context) DepthFunc(fn uint32) error {
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdDepthFunc, Value: fn})
}

func (c *Context) DepthMask(flag bool) error {
	var v uint32
	if flag {
		v = 1
	}
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdDepthMask, Value: v})
}

func (c *Context) DepthRange(near, far float32) error {
	return c.stream(&cmdbuf.DepthRangeRequest{Near: clamp01(near), Far: clamp01(far)})
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func (c *Context) StencilFunc(fn uint32, ref int32, mask uint32) error {
	return c.stream(&cmdbuf.StencilFuncRequest{Op: cmdbuf.CmdStencilFunc, Face: FrontAndBack, Func: fn, Ref: ref, Mask: mask})
}

func (c *Context) StencilFuncSeparate(face, fn uint32, ref int32, mask uint32) error {
	return c.stream(&cmdbuf.StencilFuncRequest{Op: cmdbuf.CmdStencilFuncSeparate, Face: face, Func: fn, Ref: ref, Mask: mask})
}

func (c *Context) StencilMask(mask uint32) error {
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdStencilMask, Value: mask})
}

func (c *Context) StencilMaskSeparate(face, mask uint32) error {
	return c.stream(&cmdbuf.StencilMaskSeparateRequest{Face: face, Mask: mask})
}

func (c *Context) StencilOp(fail, zfail, zpass uint32) error {
	return c.stream(&cmdbuf.StencilOpRequest{Op: cmdbuf.CmdStencilOp, Face: FrontAndBack, Fail: fail, ZFail: zfail, ZPass: zpass})
}

func (c *Context) StencilOpSeparate(face, fail, zfail, zpass uint32) error {
	return c.stream(&cmdbuf.StencilOpRequest{Op: cmdbuf.CmdStencilOpSeparate, Face: face, Fail: fail, ZFail: zfail, ZPass: zpass})
}

func (c *Context) LineWidth(width float32) error {
	if width <= 0 {
		return c.invalid("lineWidth", "width %v", width)
	}
	return c.stream(&cmdbuf.FloatRequest{Op: cmdbuf.CmdLineWidth, Value: width})
}

func (c *Context) PolygonOffset(factor, units float32) error {
	return c.stream(&cmdbuf.PolygonOffsetRequest{Factor: factor, Units: units})
}

func (c *Context) Hint(target, mode uint32) error {
	return c.stream(&cmdbuf.HintRequest{Target: target, Mode: mode})
}

// Viewport and Scissor are tracked locally so GetParameter never needs the
// host for them.
func (c *Context) Viewport(x, y, width, height int32) error {
	if width < 0 || height < 0 {
		return c.invalid("viewport", "negative size %dx%d", width, height)
	}
	c.viewport = cmdbuf.Viewport{X: x, Y: y, Width: width, Height: height}
	return c.stream(&cmdbuf.RectRequest{Op: cmdbuf.CmdViewport, Rect: c.viewport})
}

func (c *Context) Scissor(x, y, width, height int32) error {
	if width < 0 || height < 0 {
		return c.invalid("scissor", "negative size %dx%d", width, height)
	}
	c.scissor = cmdbuf.Viewport{X: x, Y: y, Width: width, Height: height}
	return c.stream(&cmdbuf.RectRequest{Op: cmdbuf.CmdScissor, Rect: c.scissor})
}

func (c *Context) Clear(mask uint32) error {
	if mask&^(ColorBufferBit|DepthBufferBit|StencilBufferBit) != 0 {
		return c.invalid("clear", "mask 0x%x", mask)
	}
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdClear, Value: mask})
}

func (c *Context) ClearColor(r, g, b, a float32) error {
	return c.stream(&cmdbuf.ColorRequest{Op: cmdbuf.CmdClearColor, R: r, G: g, B: b, A: a})
}

func (c *Context) ClearDepth(depth float32) error {
	return c.stream(&cmdbuf.FloatRequest{Op: cmdbuf.CmdClearDepth, Value: clamp01(depth)})
}

func (c *Context) ClearStencil(s int32) error {
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdClearStencil, Value: uint32(s)})
}
