package cmdbuf

// FrameMeta ties a request to the XR frame it was issued in, so the host can
// replay it for the right stereo pass.
type FrameMeta struct {
	Active    bool
	SessionID uint32
	StereoID  uint32
	ViewIndex uint32
	FrameID   int64
}

type RequestHeader struct {
	ContextID uint8
	Frame     FrameMeta
}

func (h *RequestHeader) Header() *RequestHeader { return h }

type ResponseHeader struct {
	RequestID uint32
}

func (h *ResponseHeader) Header() *ResponseHeader { return h }

type Command interface {
	Type() CommandType
}

type Request interface {
	Command
	Header() *RequestHeader
}

type Response interface {
	Command
	Header() *ResponseHeader
}
