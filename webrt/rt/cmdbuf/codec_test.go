package cmdbuf

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/gekko3d/remotegl/webrt/rt/placeholder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageFraming(t *testing.T) {
	msg := &Message{
		Type:     CmdShaderSource,
		ID:       7,
		Segments: [][]byte{[]byte("void main() {}"), {}},
		Base:     []byte{1, 2, 3, 4},
	}
	data, err := msg.MarshalBinary()
	require.NoError(t, err)

	assert.Equal(t, Magic, int16(binary.LittleEndian.Uint16(data[0:2])))
	assert.Equal(t, uint64(len(data)-10), binary.LittleEndian.Uint64(data[2:10]))

	var got Message
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, msg.Type, got.Type)
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, msg.Base, got.Base)
	require.Len(t, got.Segments, 2)
	assert.Equal(t, "void main() {}", string(got.Segments[0]))
	assert.Empty(t, got.Segments[1])
}

func TestReadMessageRejectsBadInput(t *testing.T) {
	msg := &Message{Type: CmdFlush, ID: 1}
	data, err := msg.MarshalBinary()
	require.NoError(t, err)

	bad := append([]byte{}, data...)
	bad[0] = 0
	_, err = ReadMessage(bytes.NewReader(bad))
	assert.ErrorIs(t, err, ErrBadMagic)

	_, err = ReadMessage(bytes.NewReader(data[:len(data)-3]))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestReadMessageStream(t *testing.T) {
	var stream bytes.Buffer
	for i := uint32(1); i <= 3; i++ {
		data, err := Marshal(&EnumRequest{Op: CmdEnable, Value: 0x0B71 + i}, i)
		require.NoError(t, err)
		stream.Write(data)
	}
	for i := uint32(1); i <= 3; i++ {
		msg, err := ReadMessage(&stream)
		require.NoError(t, err)
		assert.Equal(t, i, msg.ID)
	}
}

func TestEncodeDecodeRequestWithSegments(t *testing.T) {
	req := &TexImage2DRequest{
		RequestHeader: RequestHeader{ContextID: 3, Frame: FrameMeta{Active: true, StereoID: 9, ViewIndex: 1, FrameID: 42}},
		Target:        0x0DE1,
		Width:         2,
		Height:        1,
		Format:        0x1908,
		PixelType:     0x1401,
		Pixels:        []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}
	data, err := Marshal(req, 11)
	require.NoError(t, err)

	cmd, msg, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(11), msg.ID)
	require.IsType(t, &TexImage2DRequest{}, cmd)
	assert.Equal(t, req, cmd)
}

func TestSharedShapeKeepsOp(t *testing.T) {
	data, err := Marshal(&BindRequest{Op: CmdBindTexture, Target: 0x0DE1, ID: 12}, 1)
	require.NoError(t, err)

	cmd, _, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, CmdBindTexture, cmd.Type())
	assert.Equal(t, uint32(12), cmd.(*BindRequest).ID)
}

func TestLinkResponseTables(t *testing.T) {
	res := &LinkProgramResponse{
		ResponseHeader:   ResponseHeader{RequestID: 5},
		Success:          true,
		ActiveUniforms:   []ActiveInfo{{Name: "lights[0]", Size: 4, Type: 0x8B51}},
		UniformLocations: []UniformLocation{{Name: "lights[0]", Location: 3, Size: 4}},
		UniformBlocks:    []UniformBlock{{Name: "Camera", Index: 0}},
	}
	data, err := Marshal(res, 99)
	require.NoError(t, err)

	cmd, _, err := Unmarshal(data)
	require.NoError(t, err)
	got := cmd.(*LinkProgramResponse)
	assert.Equal(t, uint32(5), got.Header().RequestID)
	assert.Equal(t, res.UniformLocations, got.UniformLocations)
	assert.Equal(t, res.UniformBlocks, got.UniformBlocks)
}

func TestPlaceholderTravelsInBase(t *testing.T) {
	req := &UniformMatrixRequest{
		Op:       CmdUniformMatrix4fv,
		Location: 2,
		Graph:    placeholder.Graph{ID: placeholder.ViewMatrix, Handedness: placeholder.LeftHanded, Inverse: true},
	}
	msg, err := Encode(req, 1)
	require.NoError(t, err)
	// Values is the only variable-size field.
	assert.Len(t, msg.Segments, 1)

	cmd, err := Decode(msg)
	require.NoError(t, err)
	got := cmd.(*UniformMatrixRequest)
	assert.True(t, got.IsPlaceholder())
	assert.Equal(t, req.Graph, got.Graph)
}

func TestEveryCommandTypeIsRegistered(t *testing.T) {
	for c := CmdUnknown + 1; int(c) < len(commandTypeNames); c++ {
		_, ok := newCommand(c)
		assert.True(t, ok, "%s is not registered", c)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode(&Message{Type: CommandType(9999)})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestFlushTerminating(t *testing.T) {
	assert.True(t, CmdDrawArrays.FlushTerminating())
	assert.True(t, CmdClear.FlushTerminating())
	assert.False(t, CmdUniformMatrix4fv.FlushTerminating())
}
