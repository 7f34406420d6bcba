package gl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpackIdentity(t *testing.T) {
	pixels := []byte{10, 20, 30, 40, 50, 60, 70, 80}
	out, err := DefaultUnpackState().Apply(pixels, 1, 2, RGBA, UnsignedByte)
	require.NoError(t, err)
	assert.Equal(t, pixels, out)
	assert.Same(t, &pixels[0], &out[0])
}

func TestUnpackRowStride(t *testing.T) {
	u := DefaultUnpackState()
	assert.Equal(t, 4, u.RowStride(1, 3))
	assert.Equal(t, 8, u.RowStride(2, 3))
	assert.Equal(t, 16, u.RowStride(4, 4))
	u.Alignment = 1
	assert.Equal(t, 3, u.RowStride(1, 3))
}

func TestUnpackFlipKeepsPadding(t *testing.T) {
	u := UnpackState{FlipY: true, Alignment: 4}
	// 1x2 RGB: row 0 is padded to 4 bytes, the last row is not.
	pixels := []byte{1, 2, 3, 0xEE, 4, 5, 6}
	out, err := u.Apply(pixels, 1, 2, RGB, UnsignedByte)
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5, 6, 0xEE, 1, 2, 3}, out)
}

func TestUnpackPremultiplyRGBA(t *testing.T) {
	u := UnpackState{PremultiplyAlpha: true, Alignment: 4}
	pixels := []byte{200, 100, 50, 128, 255, 255, 255, 0}
	out, err := u.Apply(pixels, 2, 1, RGBA, UnsignedByte)
	require.NoError(t, err)
	assert.Equal(t, []byte{100, 50, 25, 128, 0, 0, 0, 0}, out)
	assert.Equal(t, byte(200), pixels[0])
}

func TestUnpackPremultiplyLuminanceAlpha(t *testing.T) {
	u := UnpackState{PremultiplyAlpha: true, Alignment: 1}
	out, err := u.Apply([]byte{255, 51}, 1, 1, LuminanceAlpha, UnsignedByte)
	require.NoError(t, err)
	assert.Equal(t, []byte{51, 51}, out)
}

func TestUnpackPremultiplyPacked(t *testing.T) {
	u := UnpackState{PremultiplyAlpha: true, Alignment: 2}

	out, err := u.Apply([]byte{0x48, 0xF8}, 1, 1, RGBA, UnsignedShort4444)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x28, 0x84}, out)

	out, err = u.Apply([]byte{0xFE, 0xFF, 0xFF, 0xFF}, 2, 1, RGBA, UnsignedShort5551)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0xFF, 0xFF}, out)
}

func TestUnpackPremultiplyWithoutAlphaIsCopy(t *testing.T) {
	u := UnpackState{PremultiplyAlpha: true, Alignment: 1}
	pixels := []byte{1, 2, 3}
	out, err := u.Apply(pixels, 1, 1, RGB, UnsignedByte)
	require.NoError(t, err)
	assert.Equal(t, pixels, out)
}

func TestUnpackRejectsShortBuffer(t *testing.T) {
	u := UnpackState{FlipY: true, Alignment: 4}
	_, err := u.Apply([]byte{1, 2, 3}, 2, 2, RGBA, UnsignedByte)
	assert.Error(t, err)

	_, err = u.Apply([]byte{1, 2, 3, 4}, 1, 1, 0x1234, UnsignedByte)
	assert.Error(t, err)
}

func TestUnpackVolumeFlipsEachImage(t *testing.T) {
	u := UnpackState{FlipY: true, Alignment: 4}
	// 1x2x2 RGBA: image A rows a0 a1, image B rows b0 b1.
	pixels := []byte{
		0xA0, 0, 0, 0, 0xA1, 0, 0, 0,
		0xB0, 0, 0, 0, 0xB1, 0, 0, 0,
	}
	out, err := u.ApplyVolume(pixels, 1, 2, 2, RGBA, UnsignedByte)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0xA1, 0, 0, 0, 0xA0, 0, 0, 0,
		0xB1, 0, 0, 0, 0xB0, 0, 0, 0,
	}, out)

	_, err = u.ApplyVolume(pixels[:12], 1, 2, 2, RGBA, UnsignedByte)
	assert.Error(t, err)
}
