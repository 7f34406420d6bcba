package gl

import (
	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
)

// BufferData uploads data to the buffer bound to target. When data is nil
// the host allocates size zeroed bytes.
func (c *Context) BufferData(target uint32, size int64, data []byte, usage uint32) error {
	if data != nil {
		size = int64(len(data))
	}
	if size < 0 {
		return c.invalid("bufferData", "negative size %d", size)
	}
	return c.setup(&cmdbuf.BufferDataRequest{Target: target, Usage: usage, Size: size, Data: data})
}

func (c *Context) BufferSubData(target uint32, offset int64, data []byte) error {
	if offset < 0 {
		return c.invalid("bufferSubData", "negative offset %d", offset)
	}
	return c.setup(&cmdbuf.BufferSubDataRequest{Target: target, Offset: offset, Data: data})
}

func (c *Context) FramebufferRenderbuffer(target, attachment, rbTarget uint32, rb *Renderbuffer) error {
	var id uint32
	if rb != nil {
		if !c.renderbuffers.Contains(rb) {
			return nil
		}
		id = rb.ID()
	}
	return c.setup(&cmdbuf.FramebufferRenderbufferRequest{
		Target: target, Attachment: attachment, RenderbufferTarget: rbTarget, Renderbuffer: id,
	})
}

func (c *Context) FramebufferTexture2D(target, attachment, texTarget uint32, t *Texture, level int32) error {
	var id uint32
	if t != nil {
		if !c.textures.Contains(t) {
			return nil
		}
		id = t.ID()
	}
	return c.setup(&cmdbuf.FramebufferTexture2DRequest{
		Target: target, Attachment: attachment, TexTarget: texTarget, Texture: id, Level: level,
	})
}

func (c *Context) RenderbufferStorage(target, internalFormat uint32, width, height int32) error {
	if width < 0 || height < 0 {
		return c.invalid("renderbufferStorage", "negative size %dx%d", width, height)
	}
	return c.setup(&cmdbuf.RenderbufferStorageRequest{
		Op: cmdbuf.CmdRenderbufferStorage, Target: target, InternalFormat: internalFormat,
		Width: width, Height: height,
	})
}

func (c *Context) CheckFramebufferStatus(target uint32) (uint32, error) {
	v, err := c.queryValue(&cmdbuf.EnumRequest{Op: cmdbuf.CmdCheckFramebufferStatus, Value: target},
		cmdbuf.CmdCheckFramebufferStatusRes)
	return uint32(v), err
}

// PixelStorei keeps the flip and premultiply flags and the unpack alignment
// on the client; pixels reach the host already transformed. Other
// parameters are forwarded.
func (c *Context) PixelStorei(pname uint32, param int32) error {
	switch pname {
	case UnpackFlipY:
		c.unpack.FlipY = param != 0
		return nil
	case UnpackPremultiplyAlpha:
		c.unpack.PremultiplyAlpha = param != 0
		return nil
	case UnpackAlignment:
		switch param {
		case 1, 2, 4, 8:
		default:
			return c.invalid("pixelStorei", "alignment %d not in {1,2,4,8}", param)
		}
		c.unpack.Alignment = int(param)
	}
	return c.setup(&cmdbuf.PixelStoreiRequest{Pname: pname, Param: param})
}

func (c *Context) UnpackState() UnpackState {
	return c.unpack
}

func (c *Context) unpackPixels(op string, pixels []byte, width, height, depth int32, format, pixelType uint32) ([]byte, error) {
	out, err := c.unpack.ApplyVolume(pixels, int(width), int(height), int(depth), format, pixelType)
	if err != nil {
		return nil, c.invalid(op, "%v", err)
	}
	return out, nil
}

// TexImage2D uploads pixels, which may be nil to allocate an empty level.
func (c *Context) TexImage2D(target uint32, level, internalFormat, width, height, border int32,
	format, pixelType uint32, pixels []byte) error {
	if width < 0 || height < 0 || level < 0 || border != 0 {
		return c.invalid("texImage2D", "bad size %dx%d level %d border %d", width, height, level, border)
	}
	data, err := c.unpackPixels("texImage2D", pixels, width, height, 1, format, pixelType)
	if err != nil {
		return err
	}
	return c.setup(&cmdbuf.TexImage2DRequest{
		Target: target, Level: level, InternalFormat: internalFormat, Width: width, Height: height,
		Border: border, Format: format, PixelType: pixelType, Pixels: data,
	})
}

func (c *Context) TexSubImage2D(target uint32, level, xoffset, yoffset, width, height int32,
	format, pixelType uint32, pixels []byte) error {
	if width < 0 || height < 0 || level < 0 || xoffset < 0 || yoffset < 0 {
		return c.invalid("texSubImage2D", "bad region %d,%d %dx%d level %d", xoffset, yoffset, width, height, level)
	}
	data, err := c.unpackPixels("texSubImage2D", pixels, width, height, 1, format, pixelType)
	if err != nil {
		return err
	}
	return c.setup(&cmdbuf.TexSubImage2DRequest{
		Target: target, Level: level, XOffset: xoffset, YOffset: yoffset, Width: width, Height: height,
		Format: format, PixelType: pixelType, Pixels: data,
	})
}

func (c *Context) CopyTexImage2D(target uint32, level int32, internalFormat uint32, x, y, width, height, border int32) error {
	if width < 0 || height < 0 || border != 0 {
		return c.invalid("copyTexImage2D", "bad size %dx%d border %d", width, height, border)
	}
	return c.setup(&cmdbuf.CopyTexImage2DRequest{
		Target: target, Level: level, InternalFormat: internalFormat, X: x, Y: y,
		Width: width, Height: height, Border: border,
	})
}

func (c *Context) CopyTexSubImage2D(target uint32, level, xoffset, yoffset, x, y, width, height int32) error {
	if width < 0 || height < 0 {
		return c.invalid("copyTexSubImage2D", "bad size %dx%d", width, height)
	}
	return c.setup(&cmdbuf.CopyTexSubImage2DRequest{
		Target: target, Level: level, XOffset: xoffset, YOffset: yoffset, X: x, Y: y,
		Width: width, Height: height,
	})
}

func (c *Context) TexParameteri(target, pname uint32, param int32) error {
	return c.setup(&cmdbuf.ParameterRequest{Op: cmdbuf.CmdTexParameteri, Target: target, Pname: pname, Int: param})
}

func (c *Context) TexParameterf(target, pname uint32, param float32) error {
	return c.setup(&cmdbuf.ParameterRequest{Op: cmdbuf.CmdTexParameterf, Target: target, Pname: pname, Float: param})
}

func (c *Context) GenerateMipmap(target uint32) error {
	return c.setup(&cmdbuf.EnumRequest{Op: cmdbuf.CmdGenerateMipmap, Value: target})
}
