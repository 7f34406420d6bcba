package cmdbuf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic prefixes every framed message on the wire.
const Magic int16 = 0x72ff

// MaxContentSize bounds a single message so a corrupt length cannot make the
// reader allocate unbounded memory.
const MaxContentSize = 256 << 20

var (
	ErrBadMagic  = errors.New("cmdbuf: bad magic")
	ErrTruncated = errors.New("cmdbuf: truncated message")
	ErrTooLarge  = errors.New("cmdbuf: message too large")
)

// Message is one framed command buffer:
//
//	int16 magic | uint64 contentSize | content
//	content = uint32 type | uint32 id | uint64 segmentsLength | uint64 segmentsCount |
//	          {uint64 size, bytes}* | uint64 baseSize | base
//
// All integers are little-endian.
type Message struct {
	Type     CommandType
	ID       uint32
	Segments [][]byte
	Base     []byte
}

func (m *Message) segmentsLength() uint64 {
	var n uint64
	for _, s := range m.Segments {
		n += 8 + uint64(len(s))
	}
	return n
}

func (m *Message) contentSize() uint64 {
	return 4 + 4 + 8 + 8 + m.segmentsLength() + 8 + uint64(len(m.Base))
}

func (m *Message) MarshalBinary() ([]byte, error) {
	content := m.contentSize()
	buf := make([]byte, 0, 2+8+content)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(Magic))
	buf = binary.LittleEndian.AppendUint64(buf, content)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Type))
	buf = binary.LittleEndian.AppendUint32(buf, m.ID)
	buf = binary.LittleEndian.AppendUint64(buf, m.segmentsLength())
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(m.Segments)))
	for _, s := range m.Segments {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s)))
		buf = append(buf, s...)
	}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(m.Base)))
	buf = append(buf, m.Base...)
	return buf, nil
}

func (m *Message) UnmarshalBinary(data []byte) error {
	msg, err := ReadMessage(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*m = *msg
	return nil
}

// ReadMessage reads exactly one framed message from r.
func ReadMessage(r io.Reader) (*Message, error) {
	var header [10]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrTruncated, err)
	}
	if int16(binary.LittleEndian.Uint16(header[0:2])) != Magic {
		return nil, ErrBadMagic
	}
	size := binary.LittleEndian.Uint64(header[2:10])
	if size > MaxContentSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	content := make([]byte, size)
	if _, err := io.ReadFull(r, content); err != nil {
		return nil, fmt.Errorf("%w: content: %v", ErrTruncated, err)
	}
	return parseContent(content)
}

func parseContent(content []byte) (*Message, error) {
	rd := contentReader{buf: content}
	m := &Message{}
	m.Type = CommandType(rd.u32())
	m.ID = rd.u32()
	_ = rd.u64() // segments length, implied by the per-segment sizes
	count := rd.u64()
	if rd.err == nil && count > uint64(len(content)) {
		return nil, ErrTruncated
	}
	for i := uint64(0); i < count && rd.err == nil; i++ {
		m.Segments = append(m.Segments, rd.bytes(rd.u64()))
	}
	m.Base = rd.bytes(rd.u64())
	if rd.err != nil {
		return nil, rd.err
	}
	if rd.off != len(content) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrTruncated, len(content)-rd.off)
	}
	return m, nil
}

type contentReader struct {
	buf []byte
	off int
	err error
}

func (r *contentReader) take(n uint64) []byte {
	if r.err != nil {
		return nil
	}
	if n > uint64(len(r.buf)-r.off) {
		r.err = ErrTruncated
		return nil
	}
	b := r.buf[r.off : r.off+int(n)]
	r.off += int(n)
	return b
}

func (r *contentReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *contentReader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *contentReader) bytes(n uint64) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
