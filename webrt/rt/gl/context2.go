package gl

import (
	"context"

	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
	"github.com/gekko3d/remotegl/webrt/rt/handle"
)

// InvalidIndex is returned by GetUniformBlockIndex for unknown blocks.
const InvalidIndex = 0xFFFFFFFF

// Context2 is a WebGL2 context: every WebGL1 call plus vertex arrays,
// instancing, 3D textures, uniform buffers, samplers, queries and transform
// feedback.
type Context2 struct {
	*Context
}

func NewContext2(ctx context.Context, ch Sender, alloc Allocator, opts Options) (*Context2, error) {
	c, err := newContext(ctx, ch, alloc, opts, true)
	if err != nil {
		return nil, err
	}
	return &Context2{c}, nil
}

func (c *Context2) Limits2() cmdbuf.Context2Limits {
	return c.limits2
}

func (c *Context2) CreateVertexArray() (*VertexArray, error) {
	return createObject(c.Context, c.vertexArrays, cmdbuf.CmdCreateVertexArray,
		&VertexArray{c.alloc.NewHandle(handle.VertexArray)})
}

func (c *Context2) DeleteVertexArray(vao *VertexArray) error {
	if vao == nil {
		return nil
	}
	return deleteObject(c.Context, c.vertexArrays, cmdbuf.CmdDeleteVertexArray, vao)
}

func (c *Context2) IsVertexArray(vao *VertexArray) bool {
	return vao != nil && c.vertexArrays.Contains(vao)
}

func (c *Context2) BindVertexArray(vao *VertexArray) error {
	var id uint32
	if vao != nil {
		if !c.vertexArrays.Contains(vao) {
			return nil
		}
		id = vao.ID()
	}
	c.state.VertexArray = vao
	return c.stream(&cmdbuf.BindRequest{Op: cmdbuf.CmdBindVertexArray, ID: id})
}

func (c *Context2) DrawArraysInstanced(mode uint32, first, count, instances int32) error {
	if first < 0 || count < 0 || instances < 0 {
		return c.invalid("drawArraysInstanced", "first %d count %d instances %d", first, count, instances)
	}
	return c.draw(&cmdbuf.DrawArraysRequest{
		Op: cmdbuf.CmdDrawArraysInstanced, Mode: mode, First: first, Count: count, InstanceCount: instances,
	})
}

func (c *Context2) DrawElementsInstanced(mode uint32, count int32, indexType uint32, offset int64, instances int32) error {
	if count < 0 || offset < 0 || instances < 0 {
		return c.invalid("drawElementsInstanced", "count %d offset %d instances %d", count, offset, instances)
	}
	return c.draw(&cmdbuf.DrawElementsRequest{
		Op: cmdbuf.CmdDrawElementsInstanced, Mode: mode, Count: count, IndexType: indexType,
		Offset: offset, InstanceCount: instances,
	})
}

func (c *Context2) DrawRangeElements(mode uint32, start, end uint32, count int32, indexType uint32, offset int64) error {
	if count < 0 || offset < 0 || end < start {
		return c.invalid("drawRangeElements", "range %d..%d count %d offset %d", start, end, count, offset)
	}
	return c.draw(&cmdbuf.DrawElementsRequest{
		Op: cmdbuf.CmdDrawRangeElements, Mode: mode, Count: count, IndexType: indexType,
		Offset: offset, Start: start, End: end,
	})
}

func (c *Context2) DrawBuffers(buffers []uint32) error {
	if limit := c.limits2.MaxDrawBuffers; limit > 0 && len(buffers) > int(limit) {
		return c.invalid("drawBuffers", "%d buffers exceed MAX_DRAW_BUFFERS %d", len(buffers), limit)
	}
	return c.stream(&cmdbuf.DrawBuffersRequest{Buffers: buffers})
}

func (c *Context2) VertexAttribIPointer(index uint32, size int32, attribType uint32, stride int32, offset int64) error {
	return c.vertexAttribPointer(cmdbuf.CmdVertexAttribIPointer, "vertexAttribIPointer",
		index, size, attribType, false, stride, offset)
}

func (c *Context2) VertexAttribDivisor(index, divisor uint32) error {
	if err := c.attribIndex("vertexAttribDivisor", index); err != nil {
		return err
	}
	return c.stream(&cmdbuf.VertexAttribDivisorRequest{Index: index, Divisor: divisor})
}

func (c *Context2) TexImage3D(target uint32, level, internalFormat, width, height, depth, border int32,
	format, pixelType uint32, pixels []byte) error {
	if width < 0 || height < 0 || depth < 0 || level < 0 || border != 0 {
		return c.invalid("texImage3D", "bad size %dx%dx%d level %d border %d", width, height, depth, level, border)
	}
	data, err := c.unpackPixels("texImage3D", pixels, width, height, depth, format, pixelType)
	if err != nil {
		return err
	}
	return c.setup(&cmdbuf.TexImage3DRequest{
		Target: target, Level: level, InternalFormat: internalFormat, Width: width, Height: height,
		Depth: depth, Border: border, Format: format, PixelType: pixelType, Pixels: data,
	})
}

func (c *Context2) TexSubImage3D(target uint32, level, xoffset, yoffset, zoffset, width, height, depth int32,
	format, pixelType uint32, pixels []byte) error {
	if width < 0 || height < 0 || depth < 0 || level < 0 || xoffset < 0 || yoffset < 0 || zoffset < 0 {
		return c.invalid("texSubImage3D", "bad region %dx%dx%d", width, height, depth)
	}
	data, err := c.unpackPixels("texSubImage3D", pixels, width, height, depth, format, pixelType)
	if err != nil {
		return err
	}
	return c.setup(&cmdbuf.TexSubImage3DRequest{
		Target: target, Level: level, XOffset: xoffset, YOffset: yoffset, ZOffset: zoffset,
		Width: width, Height: height, Depth: depth, Format: format, PixelType: pixelType, Pixels: data,
	})
}

func (c *Context2) TexStorage2D(target uint32, levels int32, internalFormat uint32, width, height int32) error {
	if levels < 1 || width < 1 || height < 1 {
		return c.invalid("texStorage2D", "levels %d size %dx%d", levels, width, height)
	}
	return c.setup(&cmdbuf.TexStorageRequest{
		Op: cmdbuf.CmdTexStorage2D, Target: target, Levels: levels, InternalFormat: internalFormat,
		Width: width, Height: height, Depth: 1,
	})
}

func (c *Context2) TexStorage3D(target uint32, levels int32, internalFormat uint32, width, height, depth int32) error {
	if levels < 1 || width < 1 || height < 1 || depth < 1 {
		return c.invalid("texStorage3D", "levels %d size %dx%dx%d", levels, width, height, depth)
	}
	return c.setup(&cmdbuf.TexStorageRequest{
		Op: cmdbuf.CmdTexStorage3D, Target: target, Levels: levels, InternalFormat: internalFormat,
		Width: width, Height: height, Depth: depth,
	})
}

func (c *Context2) RenderbufferStorageMultisample(target uint32, samples int32, internalFormat uint32, width, height int32) error {
	if samples < 0 || width < 0 || height < 0 {
		return c.invalid("renderbufferStorageMultisample", "samples %d size %dx%d", samples, width, height)
	}
	return c.setup(&cmdbuf.RenderbufferStorageRequest{
		Op: cmdbuf.CmdRenderbufferStorageMultisample, Target: target, Samples: samples,
		InternalFormat: internalFormat, Width: width, Height: height,
	})
}

func (c *Context2) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter uint32) error {
	return c.stream(&cmdbuf.BlitFramebufferRequest{
		SrcX0: srcX0, SrcY0: srcY0, SrcX1: srcX1, SrcY1: srcY1,
		DstX0: dstX0, DstY0: dstY0, DstX1: dstX1, DstY1: dstY1,
		Mask: mask, Filter: filter,
	})
}

func (c *Context2) ReadBuffer(src uint32) error {
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdReadBuffer, Value: src})
}

func (c *Context2) BindBufferBase(target, index uint32, b *Buffer) error {
	var id uint32
	if b != nil {
		if !c.buffers.Contains(b) {
			return nil
		}
		id = b.ID()
	}
	return c.stream(&cmdbuf.BindBufferRangeRequest{Op: cmdbuf.CmdBindBufferBase, Target: target, Index: index, Buffer: id})
}

func (c *Context2) BindBufferRange(target, index uint32, b *Buffer, offset, size int64) error {
	if offset < 0 || size < 0 {
		return c.invalid("bindBufferRange", "offset %d size %d", offset, size)
	}
	var id uint32
	if b != nil {
		if !c.buffers.Contains(b) {
			return nil
		}
		id = b.ID()
	}
	return c.stream(&cmdbuf.BindBufferRangeRequest{
		Op: cmdbuf.CmdBindBufferRange, Target: target, Index: index, Buffer: id, Offset: offset, Size: size,
	})
}

// GetUniformBlockIndex is answered from the link cache.
func (c *Context2) GetUniformBlockIndex(p *Program, name string) uint32 {
	if !c.IsProgram(p) {
		return InvalidIndex
	}
	idx, ok := p.uniformBlockIndices[name]
	if !ok {
		return InvalidIndex
	}
	return idx
}

func (c *Context2) UniformBlockBinding(p *Program, blockIndex, binding uint32) error {
	if !c.IsProgram(p) {
		return nil
	}
	return c.setup(&cmdbuf.UniformBlockBindingRequest{Program: p.ID(), BlockIndex: blockIndex, Binding: binding})
}

func (c *Context2) CreateSampler() (*Sampler, error) {
	return createObject(c.Context, c.samplers, cmdbuf.CmdCreateSampler, &Sampler{c.alloc.NewHandle(handle.Sampler)})
}

func (c *Context2) DeleteSampler(s *Sampler) error {
	if s == nil {
		return nil
	}
	return deleteObject(c.Context, c.samplers, cmdbuf.CmdDeleteSampler, s)
}

func (c *Context2) IsSampler(s *Sampler) bool {
	return s != nil && c.samplers.Contains(s)
}

// BindSampler binds s to a texture unit index (not a TEXTUREi enum).
func (c *Context2) BindSampler(unit uint32, s *Sampler) error {
	var id uint32
	if s != nil {
		if !c.samplers.Contains(s) {
			return nil
		}
		id = s.ID()
	}
	return c.stream(&cmdbuf.BindRequest{Op: cmdbuf.CmdBindSampler, Target: unit, ID: id})
}

func (c *Context2) SamplerParameteri(s *Sampler, pname uint32, param int32) error {
	if !c.IsSampler(s) {
		return nil
	}
	return c.setup(&cmdbuf.ParameterRequest{Op: cmdbuf.CmdSamplerParameteri, Target: s.ID(), Pname: pname, Int: param})
}

func (c *Context2) SamplerParameterf(s *Sampler, pname uint32, param float32) error {
	if !c.IsSampler(s) {
		return nil
	}
	return c.setup(&cmdbuf.ParameterRequest{Op: cmdbuf.CmdSamplerParameterf, Target: s.ID(), Pname: pname, Float: param})
}

func (c *Context2) GetSamplerParameter(s *Sampler, pname uint32) (int32, error) {
	if !c.IsSampler(s) {
		return 0, nil
	}
	return c.queryValue(&cmdbuf.ObjectQueryRequest{Op: cmdbuf.CmdGetSamplerParameter, ID: s.ID(), Pname: pname},
		cmdbuf.CmdGetSamplerParameterRes)
}

func (c *Context2) CreateQuery() (*Query, error) {
	return createObject(c.Context, c.queries, cmdbuf.CmdCreateQuery, &Query{c.alloc.NewHandle(handle.Query)})
}

func (c *Context2) DeleteQuery(q *Query) error {
	if q == nil {
		return nil
	}
	return deleteObject(c.Context, c.queries, cmdbuf.CmdDeleteQuery, q)
}

func (c *Context2) IsQuery(q *Query) bool {
	return q != nil && c.queries.Contains(q)
}

func (c *Context2) BeginQuery(target uint32, q *Query) error {
	if !c.IsQuery(q) {
		return nil
	}
	return c.stream(&cmdbuf.BindRequest{Op: cmdbuf.CmdBeginQuery, Target: target, ID: q.ID()})
}

func (c *Context2) EndQuery(target uint32) error {
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdEndQuery, Value: target})
}

func (c *Context2) GetQueryParameter(q *Query, pname uint32) (int32, error) {
	if !c.IsQuery(q) {
		return 0, nil
	}
	return c.queryValue(&cmdbuf.ObjectQueryRequest{Op: cmdbuf.CmdGetQueryParameter, ID: q.ID(), Pname: pname},
		cmdbuf.CmdGetQueryParameterRes)
}

func (c *Context2) CreateTransformFeedback() (*TransformFeedback, error) {
	return createObject(c.Context, c.transformFeedbacks, cmdbuf.CmdCreateTransformFeedback,
		&TransformFeedback{c.alloc.NewHandle(handle.TransformFeedback)})
}

func (c *Context2) DeleteTransformFeedback(tf *TransformFeedback) error {
	if tf == nil {
		return nil
	}
	return deleteObject(c.Context, c.transformFeedbacks, cmdbuf.CmdDeleteTransformFeedback, tf)
}

func (c *Context2) IsTransformFeedback(tf *TransformFeedback) bool {
	return tf != nil && c.transformFeedbacks.Contains(tf)
}

func (c *Context2) BindTransformFeedback(target uint32, tf *TransformFeedback) error {
	var id uint32
	if tf != nil {
		if !c.transformFeedbacks.Contains(tf) {
			return nil
		}
		id = tf.ID()
	}
	return c.stream(&cmdbuf.BindRequest{Op: cmdbuf.CmdBindTransformFeedback, Target: target, ID: id})
}

func (c *Context2) BeginTransformFeedback(primitiveMode uint32) error {
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdBeginTransformFeedback, Value: primitiveMode})
}

func (c *Context2) EndTransformFeedback() error {
	return c.stream(&cmdbuf.EnumRequest{Op: cmdbuf.CmdEndTransformFeedback})
}

func (c *Context2) TransformFeedbackVaryings(p *Program, varyings []string, bufferMode uint32) error {
	if !c.IsProgram(p) {
		return nil
	}
	return c.setup(&cmdbuf.TransformFeedbackVaryingsRequest{Program: p.ID(), BufferMode: bufferMode, Varyings: varyings})
}

func (c *Context2) ClearBufferfv(buffer uint32, drawBuffer int32, values []float32) error {
	if err := c.clearBufferLen("clearBufferfv", buffer, len(values)); err != nil {
		return err
	}
	return c.stream(&cmdbuf.ClearBufferRequest{Op: cmdbuf.CmdClearBufferfv, Buffer: buffer, DrawBuffer: drawBuffer, Floats: values})
}

func (c *Context2) ClearBufferiv(buffer uint32, drawBuffer int32, values []int32) error {
	if err := c.clearBufferLen("clearBufferiv", buffer, len(values)); err != nil {
		return err
	}
	return c.stream(&cmdbuf.ClearBufferRequest{Op: cmdbuf.CmdClearBufferiv, Buffer: buffer, DrawBuffer: drawBuffer, Ints: values})
}

func (c *Context2) ClearBufferuiv(buffer uint32, drawBuffer int32, values []uint32) error {
	if err := c.clearBufferLen("clearBufferuiv", buffer, len(values)); err != nil {
		return err
	}
	return c.stream(&cmdbuf.ClearBufferRequest{Op: cmdbuf.CmdClearBufferuiv, Buffer: buffer, DrawBuffer: drawBuffer, Uints: values})
}

func (c *Context2) ClearBufferfi(buffer uint32, drawBuffer int32, depth float32, stencil int32) error {
	if buffer != DepthStencil {
		return c.invalid("clearBufferfi", "buffer 0x%x is not DEPTH_STENCIL", buffer)
	}
	return c.stream(&cmdbuf.ClearBufferRequest{
		Op: cmdbuf.CmdClearBufferfi, Buffer: buffer, DrawBuffer: drawBuffer, Depth: depth, Stencil: stencil,
	})
}

// clearBufferLen checks the value count: four for COLOR, one for DEPTH or
// STENCIL.
func (c *Context2) clearBufferLen(op string, buffer uint32, n int) error {
	want := 4
	if buffer == Depth || buffer == Stencil {
		want = 1
	}
	if n < want {
		return c.invalid(op, "%d values for buffer 0x%x, need %d", n, buffer, want)
	}
	return nil
}
