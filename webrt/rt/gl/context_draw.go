package gl

import (
	"strings"

	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
	"github.com/gekko3d/remotegl/webrt/rt/placeholder"
)

func (c *Context) attribIndex(op string, index uint32) error {
	if c.limits.MaxVertexAttribs > 0 && index >= uint32(c.limits.MaxVertexAttribs) {
		return c.invalid(op, "index %d exceeds MAX_VERTEX_ATTRIBS %d", index, c.limits.MaxVertexAttribs)
	}
	return nil
}

func (c *Context) EnableVertexAttribArray(index uint32) error {
	if err := c.attribIndex("enableVertexAttribArray", index); err != nil {
		return err
	}
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdEnableVertexAttribArray, Value: index})
}

func (c *Context) DisableVertexAttribArray(index uint32) error {
	if err := c.attribIndex("disableVertexAttribArray", index); err != nil {
		return err
	}
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdDisableVertexAttribArray, Value: index})
}

func (c *Context) VertexAttribPointer(index uint32, size int32, attribType uint32, normalized bool, stride int32, offset int64) error {
	return c.vertexAttribPointer(cmdbuf.CmdVertexAttribPointer, "vertexAttribPointer",
		index, size, attribType, normalized, stride, offset)
}

func (c *Context) vertexAttribPointer(op cmdbuf.CommandType, name string, index uint32, size int32,
	attribType uint32, normalized bool, stride int32, offset int64) error {
	if err := c.attribIndex(name, index); err != nil {
		return err
	}
	if size < 1 || size > 4 || stride < 0 || stride > 255 || offset < 0 {
		return c.invalid(name, "size %d stride %d offset %d", size, stride, offset)
	}
	return c.stream(&cmdbuf.VertexAttribPointerRequest{
		Op: op, Index: index, Size: size, AttribType: attribType,
		Normalized: normalized, Stride: stride, Offset: offset,
	})
}

func (c *Context) vertexAttrib(op cmdbuf.CommandType, index uint32, values [4]float32) error {
	if err := c.attribIndex(op.String(), index); err != nil {
		return err
	}
	return c.stream(&cmdbuf.VertexAttribRequest{Op: op, Index: index, Values: values})
}

func (c *Context) VertexAttrib1f(index uint32, x float32) error {
	return c.vertexAttrib(cmdbuf.CmdVertexAttrib1f, index, [4]float32{x, 0, 0, 1})
}

func (c *Context) VertexAttrib2f(index uint32, x, y float32) error {
	return c.vertexAttrib(cmdbuf.CmdVertexAttrib2f, index, [4]float32{x, y, 0, 1})
}

func (c *Context) VertexAttrib3f(index uint32, x, y, z float32) error {
	return c.vertexAttrib(cmdbuf.CmdVertexAttrib3f, index, [4]float32{x, y, z, 1})
}

func (c *Context) VertexAttrib4f(index uint32, x, y, z, w float32) error {
	return c.vertexAttrib(cmdbuf.CmdVertexAttrib4f, index, [4]float32{x, y, z, w})
}

// usable reports whether loc points into a live program of this context.
// A nil location is silently ignored by every uniform call.
func (c *Context) usable(loc *UniformLocation) bool {
	return loc != nil && loc.Program != nil && c.programs.Contains(loc.Program)
}

func (c *Context) uniformf(op cmdbuf.CommandType, loc *UniformLocation, v ...float32) error {
	if !c.usable(loc) {
		return nil
	}
	return c.stream(&cmdbuf.UniformRequest{Op: op, Location: loc.Location, Floats: v})
}

func (c *Context) uniformi(op cmdbuf.CommandType, loc *UniformLocation, v ...int32) error {
	if !c.usable(loc) {
		return nil
	}
	return c.stream(&cmdbuf.UniformRequest{Op: op, Location: loc.Location, Ints: v})
}

func (c *Context) Uniform1f(loc *UniformLocation, x float32) error {
	return c.uniformf(cmdbuf.CmdUniform1f, loc, x)
}

func (c *Context) Uniform2f(loc *UniformLocation, x, y float32) error {
	return c.uniformf(cmdbuf.CmdUniform2f, loc, x, y)
}

func (c *Context) Uniform3f(loc *UniformLocation, x, y, z float32) error {
	return c.uniformf(cmdbuf.CmdUniform3f, loc, x, y, z)
}

func (c *Context) Uniform4f(loc *UniformLocation, x, y, z, w float32) error {
	return c.uniformf(cmdbuf.CmdUniform4f, loc, x, y, z, w)
}

func (c *Context) Uniform1i(loc *UniformLocation, x int32) error {
	return c.uniformi(cmdbuf.CmdUniform1i, loc, x)
}

func (c *Context) Uniform2i(loc *UniformLocation, x, y int32) error {
	return c.uniformi(cmdbuf.CmdUniform2i, loc, x, y)
}

func (c *Context) Uniform3i(loc *UniformLocation, x, y, z int32) error {
	return c.uniformi(cmdbuf.CmdUniform3i, loc, x, y, z)
}

func (c *Context) Uniform4i(loc *UniformLocation, x, y, z, w int32) error {
	return c.uniformi(cmdbuf.CmdUniform4i, loc, x, y, z, w)
}

func (c *Context) uniformfv(op cmdbuf.CommandType, n int, loc *UniformLocation, v []float32) error {
	if len(v) == 0 || len(v)%n != 0 {
		return c.invalid(op.String(), "length %d is not a multiple of %d", len(v), n)
	}
	return c.uniformf(op, loc, v...)
}

func (c *Context) uniformiv(op cmdbuf.CommandType, n int, loc *UniformLocation, v []int32) error {
	if len(v) == 0 || len(v)%n != 0 {
		return c.invalid(op.String(), "length %d is not a multiple of %d", len(v), n)
	}
	return c.uniformi(op, loc, v...)
}

func (c *Context) Uniform1fv(loc *UniformLocation, v []float32) error {
	return c.uniformfv(cmdbuf.CmdUniform1fv, 1, loc, v)
}

func (c *Context) Uniform2fv(loc *UniformLocation, v []float32) error {
	return c.uniformfv(cmdbuf.CmdUniform2fv, 2, loc, v)
}

func (c *Context) Uniform3fv(loc *UniformLocation, v []float32) error {
	return c.uniformfv(cmdbuf.CmdUniform3fv, 3, loc, v)
}

func (c *Context) Uniform4fv(loc *UniformLocation, v []float32) error {
	return c.uniformfv(cmdbuf.CmdUniform4fv, 4, loc, v)
}

func (c *Context) Uniform1iv(loc *UniformLocation, v []int32) error {
	return c.uniformiv(cmdbuf.CmdUniform1iv, 1, loc, v)
}

func (c *Context) Uniform2iv(loc *UniformLocation, v []int32) error {
	return c.uniformiv(cmdbuf.CmdUniform2iv, 2, loc, v)
}

func (c *Context) Uniform3iv(loc *UniformLocation, v []int32) error {
	return c.uniformiv(cmdbuf.CmdUniform3iv, 3, loc, v)
}

func (c *Context) Uniform4iv(loc *UniformLocation, v []int32) error {
	return c.uniformiv(cmdbuf.CmdUniform4iv, 4, loc, v)
}

func (c *Context) UniformMatrix2fv(loc *UniformLocation, transpose bool, v []float32) error {
	return c.uniformMatrix(cmdbuf.CmdUniformMatrix2fv, 2, loc, transpose, v)
}

func (c *Context) UniformMatrix3fv(loc *UniformLocation, transpose bool, v []float32) error {
	return c.uniformMatrix(cmdbuf.CmdUniformMatrix3fv, 3, loc, transpose, v)
}

// UniformMatrix4fv sends literal values, unless an XR frame is running on
// this context and the uniform's name is a known camera matrix. Then the
// host gets a placeholder and fills in the live per-eye matrix.
func (c *Context) UniformMatrix4fv(loc *UniformLocation, transpose bool, v []float32) error {
	return c.uniformMatrix(cmdbuf.CmdUniformMatrix4fv, 4, loc, transpose, v)
}

// UniformMatrix4fvPlaceholder sends an explicit descriptor, for callers that
// already know which camera matrix they want.
func (c *Context) UniformMatrix4fvPlaceholder(loc *UniformLocation, transpose bool, g placeholder.Graph) error {
	if g.ID == placeholder.NotSet {
		return c.invalid("uniformMatrix4fv", "placeholder without id")
	}
	if !c.usable(loc) {
		return nil
	}
	return c.stream(&cmdbuf.UniformMatrixRequest{
		Op: cmdbuf.CmdUniformMatrix4fv, Location: loc.Location, Transpose: transpose, Graph: g,
	})
}

func (c *Context) uniformMatrix(op cmdbuf.CommandType, n int, loc *UniformLocation, transpose bool, v []float32) error {
	if len(v) == 0 || len(v)%(n*n) != 0 {
		return c.invalid(op.String(), "length %d is not a multiple of %d", len(v), n*n)
	}
	if !c.usable(loc) {
		return nil
	}
	req := &cmdbuf.UniformMatrixRequest{Op: op, Location: loc.Location, Transpose: transpose}
	if g, ok := c.cameraGraph(n, loc); ok {
		req.Graph = g
		if c.log.DebugEnabled() {
			c.log.Debugf("gl: context %d: uniform %q sent as %s", c.id, loc.Name, g)
		}
	} else {
		req.Values = v
	}
	return c.stream(req)
}

func (c *Context) cameraGraph(n int, loc *UniformLocation) (placeholder.Graph, bool) {
	if n != 4 || !c.InXRFrame() {
		return placeholder.Graph{}, false
	}
	e, ok := c.names.Match(loc.Name)
	if !ok {
		e, ok = c.names.Match(strings.TrimSuffix(loc.Name, "[0]"))
	}
	if !ok {
		return placeholder.Graph{}, false
	}
	return placeholder.GraphFor(e, c.handedness), true
}

// afterDraw sends the first-contentful-paint metric once per context.
func (c *Context) afterDraw() error {
	if !c.painted.CompareAndSwap(false, true) {
		return nil
	}
	return c.setup(&cmdbuf.PaintingMetricsRequest{Category: cmdbuf.MetricsFirstContentfulPaint})
}

func (c *Context) draw(req cmdbuf.Request) error {
	if err := c.stream(req); err != nil {
		return err
	}
	return c.afterDraw()
}

func (c *Context) DrawArrays(mode uint32, first, count int32) error {
	if first < 0 || count < 0 {
		return c.invalid("drawArrays", "first %d count %d", first, count)
	}
	return c.draw(&cmdbuf.DrawArraysRequest{Op: cmdbuf.CmdDrawArrays, Mode: mode, First: first, Count: count})
}

func (c *Context) DrawElements(mode uint32, count int32, indexType uint32, offset int64) error {
	if count < 0 || offset < 0 {
		return c.invalid("drawElements", "count %d offset %d", count, offset)
	}
	return c.draw(&cmdbuf.DrawElementsRequest{
		Op: cmdbuf.CmdDrawElements, Mode: mode, Count: count, IndexType: indexType, Offset: offset,
	})
}
