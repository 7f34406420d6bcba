package handle

import "fmt"

type Kind uint8

const (
	Buffer Kind = iota
	Framebuffer
	Program
	Shader
	Texture
	Renderbuffer
	VertexArray
	Query
	Sampler
	TransformFeedback
	kindCount
)

var kindNames = [...]string{
	Buffer:            "Buffer",
	Framebuffer:       "Framebuffer",
	Program:           "Program",
	Shader:            "Shader",
	Texture:           "Texture",
	Renderbuffer:      "Renderbuffer",
	VertexArray:       "VertexArray",
	Query:             "Query",
	Sampler:           "Sampler",
	TransformFeedback: "TransformFeedback",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Handle is the client-side proxy of an object living in the host process.
// A deleted handle is inert: contexts treat every call that takes it as a no-op.
type Handle struct {
	id      uint32
	kind    Kind
	deleted bool
}

func New(kind Kind, id uint32) Handle {
	return Handle{id: id, kind: kind}
}

func (h *Handle) ID() uint32 {
	if h == nil {
		return 0
	}
	return h.id
}

func (h *Handle) Kind() Kind {
	return h.kind
}

func (h *Handle) IsDeleted() bool {
	return h != nil && h.deleted
}

// Alive reports whether h refers to a live object. Nil handles are not alive.
func (h *Handle) Alive() bool {
	return h != nil && !h.deleted
}

// MarkDeleted flips the handle into its terminal state. It returns false when
// the handle was nil or already deleted, so callers can skip the delete command.
func (h *Handle) MarkDeleted() bool {
	if h == nil || h.deleted {
		return false
	}
	h.deleted = true
	return true
}

func (h *Handle) String() string {
	if h == nil {
		return "<nil>"
	}
	state := ""
	if h.deleted {
		state = ",deleted"
	}
	return fmt.Sprintf("%s(%d%s)", h.kind, h.id, state)
}

// Object is anything backed by a Handle.
type Object interface {
	Ref() *Handle
}

// Ref lets types that embed Handle satisfy Object.
func (h *Handle) Ref() *Handle { return h }
