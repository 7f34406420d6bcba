package cmdbuf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrUnknownCommand = errors.New("cmdbuf: unknown command type")

var (
	registryMu sync.RWMutex
	registry   = make(map[CommandType]reflect.Value)
)

// Register makes a command decodable. The prototype is copied for every decoded
// message, so shared-shape commands keep their Op field.
func Register(protos ...Command) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, proto := range protos {
		v := reflect.ValueOf(proto)
		if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
			panic(fmt.Sprintf("cmdbuf: %T must be a pointer to struct", proto))
		}
		if _, ok := registry[proto.Type()]; ok {
			panic(fmt.Sprintf("cmdbuf: %s registered twice", proto.Type()))
		}
		registry[proto.Type()] = v.Elem()
	}
}

func newCommand(t CommandType) (Command, bool) {
	registryMu.RLock()
	proto, ok := registry[t]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	v := reflect.New(proto.Type())
	v.Elem().Set(proto)
	return v.Interface().(Command), true
}

// Encode packs cmd into a message. Fixed-size fields go into the base in
// declaration order; strings, byte slices and numeric slices each take one
// segment; any other field is carried as a JSON segment.
func Encode(cmd Command, id uint32) (*Message, error) {
	v := reflect.ValueOf(cmd)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, fmt.Errorf("cmdbuf: cannot encode %T", cmd)
	}
	msg := &Message{Type: cmd.Type(), ID: id}
	var base bytes.Buffer
	if err := encodeStruct(v.Elem(), &base, msg); err != nil {
		return nil, fmt.Errorf("cmdbuf: encode %s: %w", cmd.Type(), err)
	}
	msg.Base = base.Bytes()
	return msg, nil
}

// Decode rebuilds the command carried by msg.
func Decode(msg *Message) (Command, error) {
	cmd, ok := newCommand(msg.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCommand, uint32(msg.Type))
	}
	dec := decoder{base: bytes.NewReader(msg.Base), segments: msg.Segments}
	if err := dec.decodeStruct(reflect.ValueOf(cmd).Elem()); err != nil {
		return nil, fmt.Errorf("cmdbuf: decode %s: %w", msg.Type, err)
	}
	return cmd, nil
}

// Marshal is Encode followed by framing.
func Marshal(cmd Command, id uint32) ([]byte, error) {
	msg, err := Encode(cmd, id)
	if err != nil {
		return nil, err
	}
	return msg.MarshalBinary()
}

// Unmarshal parses a framed message and decodes its command.
func Unmarshal(data []byte) (Command, *Message, error) {
	var msg Message
	if err := msg.UnmarshalBinary(data); err != nil {
		return nil, nil, err
	}
	cmd, err := Decode(&msg)
	return cmd, &msg, err
}

func skipField(f reflect.StructField) bool {
	return !f.IsExported() || f.Tag.Get("wire") == "-"
}

func isFixed(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8, reflect.Int16, reflect.Uint16,
		reflect.Int32, reflect.Uint32, reflect.Int64, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Array:
		return isFixed(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if skipField(f) || !isFixed(f.Type) {
				return false
			}
		}
		return true
	}
	return false
}

func encodeStruct(v reflect.Value, base *bytes.Buffer, msg *Message) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if skipField(f) {
			continue
		}
		fv := v.Field(i)
		switch {
		case isFixed(f.Type):
			if err := binary.Write(base, binary.LittleEndian, fv.Interface()); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		case f.Type.Kind() == reflect.Struct && f.Anonymous:
			if err := encodeStruct(fv, base, msg); err != nil {
				return err
			}
		default:
			seg, err := encodeSegment(fv)
			if err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
			msg.Segments = append(msg.Segments, seg)
		}
	}
	return nil
}

func encodeSegment(v reflect.Value) ([]byte, error) {
	switch x := v.Interface().(type) {
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case []float32:
		out := make([]byte, 4*len(x))
		for i, f := range x {
			binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(f))
		}
		return out, nil
	case []int32:
		out := make([]byte, 4*len(x))
		for i, n := range x {
			binary.LittleEndian.PutUint32(out[4*i:], uint32(n))
		}
		return out, nil
	case []uint32:
		out := make([]byte, 4*len(x))
		for i, n := range x {
			binary.LittleEndian.PutUint32(out[4*i:], n)
		}
		return out, nil
	}
	return json.Marshal(v.Interface())
}

type decoder struct {
	base     *bytes.Reader
	segments [][]byte
	next     int
}

func (d *decoder) segment() ([]byte, error) {
	if d.next >= len(d.segments) {
		return nil, ErrTruncated
	}
	seg := d.segments[d.next]
	d.next++
	return seg, nil
}

func (d *decoder) decodeStruct(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if skipField(f) {
			continue
		}
		fv := v.Field(i)
		switch {
		case isFixed(f.Type):
			if err := binary.Read(d.base, binary.LittleEndian, fv.Addr().Interface()); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, ErrTruncated)
			}
		case f.Type.Kind() == reflect.Struct && f.Anonymous:
			if err := d.decodeStruct(fv); err != nil {
				return err
			}
		default:
			seg, err := d.segment()
			if err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
			if err := decodeSegment(seg, fv); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
	}
	return nil
}

func decodeSegment(seg []byte, v reflect.Value) error {
	switch v.Interface().(type) {
	case string:
		v.SetString(string(seg))
		return nil
	case []byte:
		if len(seg) > 0 {
			v.SetBytes(seg)
		}
		return nil
	case []float32:
		if len(seg)%4 != 0 {
			return ErrTruncated
		}
		out := make([]float32, len(seg)/4)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(seg[4*i:]))
		}
		v.Set(reflect.ValueOf(out))
		return nil
	case []int32:
		if len(seg)%4 != 0 {
			return ErrTruncated
		}
		out := make([]int32, len(seg)/4)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(seg[4*i:]))
		}
		v.Set(reflect.ValueOf(out))
		return nil
	case []uint32:
		if len(seg)%4 != 0 {
			return ErrTruncated
		}
		out := make([]uint32, len(seg)/4)
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(seg[4*i:])
		}
		v.Set(reflect.ValueOf(out))
		return nil
	}
	return json.Unmarshal(seg, v.Addr().Interface())
}
