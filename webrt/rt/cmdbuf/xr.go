package cmdbuf

// SessionMode values match the XR device protocol.
type SessionMode int32

const (
	SessionImmersiveAR SessionMode = 0
	SessionImmersiveVR SessionMode = 1
	SessionInline      SessionMode = 2
)

func (m SessionMode) String() string {
	switch m {
	case SessionImmersiveAR:
		return "immersive-ar"
	case SessionImmersiveVR:
		return "immersive-vr"
	case SessionInline:
		return "inline"
	}
	return "unknown"
}

type IsSessionSupportedRequest struct {
	RequestHeader
	Mode SessionMode
}

func (*IsSessionSupportedRequest) Type() CommandType { return CmdXRIsSessionSupported }

type IsSessionSupportedResponse struct {
	ResponseHeader
	Supported bool
}

func (*IsSessionSupportedResponse) Type() CommandType { return CmdXRIsSessionSupportedRes }

type RequestSessionRequest struct {
	RequestHeader
	Mode             SessionMode
	RequiredFeatures []string
	OptionalFeatures []string
}

func (*RequestSessionRequest) Type() CommandType { return CmdXRRequestSession }

type RequestSessionResponse struct {
	ResponseHeader
	Success                bool
	SessionID              uint32
	RecommendedContentSize float32
	// Multipass hosts render one view per frame request.
	Multipass bool
}

func (*RequestSessionResponse) Type() CommandType { return CmdXRRequestSessionRes }

type EndSessionRequest struct {
	RequestHeader
	SessionID uint32
}

func (*EndSessionRequest) Type() CommandType { return CmdXREndSession }

// UpdateRenderStateRequest tells the device which context renders the
// session and with which clip planes.
type UpdateRenderStateRequest struct {
	RequestHeader
	SessionID                 uint32
	LayerContextID            uint8
	DepthNear                 float32
	DepthFar                  float32
	InlineVerticalFieldOfView float32
}

func (*UpdateRenderStateRequest) Type() CommandType { return CmdXRUpdateRenderState }

func init() {
	Register(
		&IsSessionSupportedRequest{},
		&IsSessionSupportedResponse{},
		&RequestSessionRequest{},
		&RequestSessionResponse{},
		&EndSessionRequest{},
		&UpdateRenderStateRequest{},
	)
}
