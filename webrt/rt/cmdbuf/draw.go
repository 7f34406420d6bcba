package cmdbuf

import "github.com/gekko3d/remotegl/webrt/rt/placeholder"

// UniformRequest serves every uniform{1,2,3,4}{f,i}[v] call. Only one of
// Floats and Ints is set, depending on Op.
type UniformRequest struct {
	RequestHeader
	Op       CommandType `wire:"-"`
	Location int32
	Floats   []float32
	Ints     []int32
}

func (r *UniformRequest) Type() CommandType { return r.Op }

// UniformMatrixRequest carries either literal values or, when Graph names a
// placeholder, no values at all: the host fills the matrix per eye.
type UniformMatrixRequest struct {
	RequestHeader
	Op        CommandType `wire:"-"`
	Location  int32
	Transpose bool
	Graph     placeholder.Graph
	Values    []float32
}

func (r *UniformMatrixRequest) Type() CommandType { return r.Op }

func (r *UniformMatrixRequest) IsPlaceholder() bool {
	return r.Graph.ID != placeholder.NotSet
}

type VertexAttribPointerRequest struct {
	RequestHeader
	Op         CommandType `wire:"-"`
	Index      uint32
	Size       int32
	AttribType uint32
	Normalized bool
	Stride     int32
	Offset     int64
}

func (r *VertexAttribPointerRequest) Type() CommandType { return r.Op }

type VertexAttribDivisorRequest struct {
	RequestHeader
	Index   uint32
	Divisor uint32
}

func (*VertexAttribDivisorRequest) Type() CommandType { return CmdVertexAttribDivisor }

type VertexAttribRequest struct {
	RequestHeader
	Op     CommandType `wire:"-"`
	Index  uint32
	Values [4]float32
}

func (r *VertexAttribRequest) Type() CommandType { return r.Op }

// DrawArraysRequest serves drawArrays and drawArraysInstanced.
type DrawArraysRequest struct {
	RequestHeader
	Op            CommandType `wire:"-"`
	Mode          uint32
	First         int32
	Count         int32
	InstanceCount int32
}

func (r *DrawArraysRequest) Type() CommandType { return r.Op }

// DrawElementsRequest serves drawElements, drawElementsInstanced and
// drawRangeElements.
type DrawElementsRequest struct {
	RequestHeader
	Op            CommandType `wire:"-"`
	Mode          uint32
	Count         int32
	IndexType     uint32
	Offset        int64
	InstanceCount int32
	Start         uint32
	End           uint32
}

func (r *DrawElementsRequest) Type() CommandType { return r.Op }

type ClearBufferRequest struct {
	RequestHeader
	Op         CommandType `wire:"-"`
	Buffer     uint32
	DrawBuffer int32
	Depth      float32
	Stencil    int32
	Floats     []float32
	Ints       []int32
	Uints      []uint32
}

func (r *ClearBufferRequest) Type() CommandType { return r.Op }

func init() {
	for _, op := range []CommandType{
		CmdUniform1f, CmdUniform2f, CmdUniform3f, CmdUniform4f,
		CmdUniform1i, CmdUniform2i, CmdUniform3i, CmdUniform4i,
		CmdUniform1fv, CmdUniform2fv, CmdUniform3fv, CmdUniform4fv,
		CmdUniform1iv, CmdUniform2iv, CmdUniform3iv, CmdUniform4iv,
	} {
		Register(&UniformRequest{Op: op})
	}
	for _, op := range []CommandType{CmdUniformMatrix2fv, CmdUniformMatrix3fv, CmdUniformMatrix4fv} {
		Register(&UniformMatrixRequest{Op: op})
	}
	for _, op := range []CommandType{CmdVertexAttrib1f, CmdVertexAttrib2f, CmdVertexAttrib3f, CmdVertexAttrib4f} {
		Register(&VertexAttribRequest{Op: op})
	}
	for _, op := range []CommandType{CmdClearBufferfv, CmdClearBufferiv, CmdClearBufferuiv, CmdClearBufferfi} {
		Register(&ClearBufferRequest{Op: op})
	}
	Register(
		&VertexAttribPointerRequest{Op: CmdVertexAttribPointer},
		&VertexAttribPointerRequest{Op: CmdVertexAttribIPointer},
		&VertexAttribDivisorRequest{},
		&DrawArraysRequest{Op: CmdDrawArrays},
		&DrawArraysRequest{Op: CmdDrawArraysInstanced},
		&DrawElementsRequest{Op: CmdDrawElements},
		&DrawElementsRequest{Op: CmdDrawElementsInstanced},
		&DrawElementsRequest{Op: CmdDrawRangeElements},
	)
}
