package gl_test

import (
	"context"
	"testing"
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/channel/channeltest"
	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
	"github.com/gekko3d/remotegl/webrt/rt/gl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext2(t *testing.T) (*gl.Context2, *channeltest.Host) {
	t.Helper()
	host, ch, alloc := newHost()
	c, err := gl.NewContext2(context.Background(), ch, alloc, gl.Options{ResponseTimeout: 50 * time.Millisecond})
	require.NoError(t, err)
	host.Reset()
	return c, host
}

func TestContext2InitRequestsWebGL2(t *testing.T) {
	host, ch, alloc := newHost()
	c, err := gl.NewContext2(context.Background(), ch, alloc, gl.Options{})
	require.NoError(t, err)

	assert.True(t, c.IsWebGL2())
	assert.Equal(t, 1, host.Count(cmdbuf.CmdWebGL2ContextInit))
	assert.Equal(t, int32(4), c.Limits2().MaxDrawBuffers)
}

func TestUniformBlockIndexFromCache(t *testing.T) {
	c, host := newContext2(t)
	p := linkedProgram(t, c.Context, host, &cmdbuf.LinkProgramResponse{
		Success:       true,
		UniformBlocks: []cmdbuf.UniformBlock{{Name: "Camera", Index: 2}},
	})

	assert.Equal(t, uint32(2), c.GetUniformBlockIndex(p, "Camera"))
	assert.Equal(t, uint32(gl.InvalidIndex), c.GetUniformBlockIndex(p, "Lights"))
	assert.Equal(t, uint32(gl.InvalidIndex), c.GetUniformBlockIndex(nil, "Camera"))
}

func TestSamplerLifecycle(t *testing.T) {
	c, host := newContext2(t)

	s, err := c.CreateSampler()
	require.NoError(t, err)
	assert.True(t, c.IsSampler(s))
	require.NoError(t, c.BindSampler(0, s))
	require.NoError(t, c.SamplerParameteri(s, 0x2801, 0x2601))
	require.NoError(t, c.DeleteSampler(s))

	require.NoError(t, c.BindSampler(0, s))
	require.NoError(t, c.SamplerParameteri(s, 0x2801, 0x2601))
	assert.False(t, c.IsSampler(s))

	assert.Equal(t, []cmdbuf.CommandType{
		cmdbuf.CmdCreateSampler,
		cmdbuf.CmdBindSampler,
		cmdbuf.CmdSamplerParameteri,
		cmdbuf.CmdDeleteSampler,
	}, host.Types())
}

func TestDrawBuffersLimit(t *testing.T) {
	c, host := newContext2(t)

	require.NoError(t, c.DrawBuffers([]uint32{0x8CE0, 0x8CE1}))
	err := c.DrawBuffers([]uint32{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, gl.ErrInvalidArgument)
	assert.Equal(t, 1, host.Count(cmdbuf.CmdDrawBuffers))
}

func TestClearBufferValueCount(t *testing.T) {
	c, host := newContext2(t)

	assert.ErrorIs(t, c.ClearBufferfv(gl.Color, 0, []float32{0, 0, 0}), gl.ErrInvalidArgument)
	require.NoError(t, c.ClearBufferfv(gl.Color, 0, []float32{0, 0, 0, 1}))
	require.NoError(t, c.ClearBufferfv(gl.Depth, 0, []float32{1}))
	assert.ErrorIs(t, c.ClearBufferiv(gl.Stencil, 0, nil), gl.ErrInvalidArgument)
	assert.ErrorIs(t, c.ClearBufferfi(gl.Color, 0, 1, 0), gl.ErrInvalidArgument)
	require.NoError(t, c.ClearBufferfi(gl.DepthStencil, 0, 1, 0))

	assert.Equal(t, 2, host.Count(cmdbuf.CmdClearBufferfv))
	assert.Equal(t, 1, host.Count(cmdbuf.CmdClearBufferfi))
	req := host.OfType(cmdbuf.CmdClearBufferfv)[0].(*cmdbuf.ClearBufferRequest)
	assert.Equal(t, []float32{0, 0, 0, 1}, req.Floats)
}

func TestVertexArrayBinding(t *testing.T) {
	c, _ := newContext2(t)

	vao, err := c.CreateVertexArray()
	require.NoError(t, err)
	require.NoError(t, c.BindVertexArray(vao))
	assert.Same(t, vao, c.State().VertexArray)

	require.NoError(t, c.BindVertexArray(nil))
	assert.Nil(t, c.State().VertexArray)
}

func TestTexImage3DFlipsPerSlice(t *testing.T) {
	c, host := newContext2(t)
	require.NoError(t, c.PixelStorei(gl.UnpackFlipY, 1))

	pixels := []byte{
		0xA0, 0, 0, 0, 0xA1, 0, 0, 0,
		0xB0, 0, 0, 0, 0xB1, 0, 0, 0,
	}
	require.NoError(t, c.TexImage3D(gl.Texture3D, 0, gl.RGBA, 1, 2, 2, 0, gl.RGBA, gl.UnsignedByte, pixels))
	req := host.Last().(*cmdbuf.TexImage3DRequest)
	assert.Equal(t, []byte{
		0xA1, 0, 0, 0, 0xA0, 0, 0, 0,
		0xB1, 0, 0, 0, 0xB0, 0, 0, 0,
	}, req.Pixels)
	assert.Equal(t, byte(0xA0), pixels[0])

	require.NoError(t, c.TexSubImage3D(gl.Texture3D, 0, 0, 0, 1, 1, 2, 1, gl.RGBA, gl.UnsignedByte, pixels[8:]))
	sub := host.Last().(*cmdbuf.TexSubImage3DRequest)
	assert.Equal(t, []byte{0xB1, 0, 0, 0, 0xB0, 0, 0, 0}, sub.Pixels)
}

func TestQueryLifecycle(t *testing.T) {
	c, host := newContext2(t)
	host.Handle(cmdbuf.CmdGetQueryParameter, func(cmdbuf.Request) cmdbuf.Response {
		return &cmdbuf.ParameterResponse{Op: cmdbuf.CmdGetQueryParameterRes, Value: 42}
	})
	const anySamplesPassed, queryResult = 0x8C2F, 0x8866

	q, err := c.CreateQuery()
	require.NoError(t, err)
	assert.True(t, c.IsQuery(q))
	require.NoError(t, c.BeginQuery(anySamplesPassed, q))
	require.NoError(t, c.EndQuery(anySamplesPassed))
	v, err := c.GetQueryParameter(q, queryResult)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	req := host.OfType(cmdbuf.CmdGetQueryParameter)[0].(*cmdbuf.ObjectQueryRequest)
	assert.Equal(t, q.ID(), req.ID)
	assert.Equal(t, uint32(queryResult), req.Pname)

	require.NoError(t, c.DeleteQuery(q))
	assert.False(t, c.IsQuery(q))
	host.Reset()
	require.NoError(t, c.BeginQuery(anySamplesPassed, q))
	v, err = c.GetQueryParameter(q, queryResult)
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.Empty(t, host.Requests())
}

func TestTransformFeedbackLifecycle(t *testing.T) {
	c, host := newContext2(t)
	const interleaved, points = 0x8C8C, 0x0000

	p, err := c.CreateProgram()
	require.NoError(t, err)
	tf, err := c.CreateTransformFeedback()
	require.NoError(t, err)
	assert.True(t, c.IsTransformFeedback(tf))

	require.NoError(t, c.TransformFeedbackVaryings(p, []string{"v_pos", "v_vel"}, interleaved))
	require.NoError(t, c.BindTransformFeedback(gl.TransformFeedbackTarget, tf))
	require.NoError(t, c.BeginTransformFeedback(points))
	require.NoError(t, c.EndTransformFeedback())
	require.NoError(t, c.BindTransformFeedback(gl.TransformFeedbackTarget, nil))

	varyings := host.OfType(cmdbuf.CmdTransformFeedbackVaryings)[0].(*cmdbuf.TransformFeedbackVaryingsRequest)
	assert.Equal(t, []string{"v_pos", "v_vel"}, varyings.Varyings)
	assert.Equal(t, p.ID(), varyings.Program)
	binds := host.OfType(cmdbuf.CmdBindTransformFeedback)
	require.Len(t, binds, 2)
	assert.Equal(t, tf.ID(), binds[0].(*cmdbuf.BindRequest).ID)
	assert.Zero(t, binds[1].(*cmdbuf.BindRequest).ID)

	require.NoError(t, c.DeleteTransformFeedback(tf))
	require.NoError(t, c.DeleteProgram(p))
	host.Reset()
	require.NoError(t, c.BindTransformFeedback(gl.TransformFeedbackTarget, tf))
	require.NoError(t, c.TransformFeedbackVaryings(p, []string{"v_pos"}, interleaved))
	assert.False(t, c.IsTransformFeedback(tf))
	assert.Empty(t, host.Requests())
}
