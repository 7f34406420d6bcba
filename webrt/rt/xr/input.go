package xr

import (
	"fmt"
)

// InputSourceID identifies the fixed input slots a device can report.
type InputSourceID int

const (
	InputGaze InputSourceID = iota
	InputMainController
	InputTransientPointer
	InputLeftHand
	InputRightHand
)

var inputSourceNames = [...]string{
	InputGaze:             "gaze",
	InputMainController:   "main-controller",
	InputTransientPointer: "transient-pointer",
	InputLeftHand:         "left-hand",
	InputRightHand:        "right-hand",
}

func (id InputSourceID) String() string {
	if id >= 0 && int(id) < len(inputSourceNames) {
		return inputSourceNames[id]
	}
	return fmt.Sprintf("InputSourceID(%d)", int(id))
}

// IsHand reports whether the slot carries joint data.
func (id InputSourceID) IsHand() bool {
	return id == InputLeftHand || id == InputRightHand
}

// Hand holds one joint space per hand joint.
type Hand struct {
	joints [JointCount]*JointSpace
}

func (h *Hand) Size() int { return JointCount }

// Joint returns the space of joint index i, or nil.
func (h *Hand) Joint(i int) *JointSpace {
	if i < 0 || i >= JointCount {
		return nil
	}
	return h.joints[i]
}

// Get looks a joint up by its name.
func (h *Hand) Get(name string) *JointSpace {
	i, ok := JointIndex(name)
	if !ok {
		return nil
	}
	return h.joints[i]
}

type InputSource struct {
	ID             InputSourceID
	Handedness     Handedness
	TargetRayMode  TargetRayMode
	Profiles       []string
	TargetRaySpace *TargetRayOrGripSpace
	// GripSpace is nil unless the source is a tracked pointer.
	GripSpace *TargetRayOrGripSpace
	// Hand is nil unless the source is a tracked hand.
	Hand *Hand

	released       bool
	primaryPressed bool
	squeezePressed bool
}

func newInputSource(state *InputState) *InputSource {
	src := &InputSource{
		ID:            state.ID,
		Handedness:    state.Handedness,
		TargetRayMode: state.TargetRayMode,
		Profiles:      append([]string(nil), state.Profiles...),
	}
	src.TargetRaySpace = &TargetRayOrGripSpace{spaceState: newSpaceState(SubTypeTargetRay, false), source: src}
	if state.TargetRayMode == TargetRayTrackedPointer {
		src.GripSpace = &TargetRayOrGripSpace{spaceState: newSpaceState(SubTypeGrip, false), source: src}
	}
	if state.ID.IsHand() {
		src.Hand = &Hand{}
		for i := range src.Hand.joints {
			src.Hand.joints[i] = &JointSpace{spaceState: newSpaceState(SubTypeUnset, false), source: src, joint: i}
		}
	}
	return src
}

// Released reports whether the source has left the session.
func (s *InputSource) Released() bool { return s.released }

func (s *InputSource) String() string {
	return fmt.Sprintf("InputSource(%s, %s, %s)", s.ID, s.Handedness, s.TargetRayMode)
}

// InputSourcesChange lists the sources that left and joined in one frame.
type InputSourcesChange struct {
	Added   []*InputSource
	Removed []*InputSource
}

func (c InputSourcesChange) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// InputSourceArray is the live set of input sources of a session.
type InputSourceArray struct {
	sources []*InputSource
}

func (a *InputSourceArray) Len() int { return len(a.sources) }

func (a *InputSourceArray) At(i int) *InputSource { return a.sources[i] }

// All returns a copy of the live sources.
func (a *InputSourceArray) All() []*InputSource {
	return append([]*InputSource(nil), a.sources...)
}

func (a *InputSourceArray) ByID(id InputSourceID) *InputSource {
	for _, s := range a.sources {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Reconcile diffs the enabled sources of snap against the live set. Removed
// sources are released and handed to onRemoved before the array is rebuilt;
// added ones are handed to onAdded afterwards. Either callback may be nil.
func (a *InputSourceArray) Reconcile(snap *Snapshot, onRemoved, onAdded func([]*InputSource)) InputSourcesChange {
	enabled := make(map[InputSourceID]*InputState, len(snap.Inputs))
	var order []InputSourceID
	for i := range snap.Inputs {
		in := &snap.Inputs[i]
		if !in.Enabled {
			continue
		}
		if _, dup := enabled[in.ID]; !dup {
			order = append(order, in.ID)
		}
		enabled[in.ID] = in
	}

	var change InputSourcesChange
	live := make(map[InputSourceID]*InputSource, len(a.sources))
	for _, s := range a.sources {
		if _, ok := enabled[s.ID]; ok {
			live[s.ID] = s
			continue
		}
		s.released = true
		change.Removed = append(change.Removed, s)
	}
	if len(change.Removed) > 0 && onRemoved != nil {
		onRemoved(change.Removed)
	}

	rebuilt := make([]*InputSource, 0, len(order))
	for _, id := range order {
		s, ok := live[id]
		if !ok {
			s = newInputSource(enabled[id])
			change.Added = append(change.Added, s)
		}
		rebuilt = append(rebuilt, s)
	}
	a.sources = rebuilt

	if len(change.Added) > 0 && onAdded != nil {
		onAdded(change.Added)
	}
	return change
}

// ActionEdge is a select or squeeze transition seen in one frame.
type ActionEdge struct {
	Source *InputSource
	Type   string
}

// actionEdges compares each live source's pressed flags with the previous
// frame. A press yields the start event; a release yields the action event
// and then the end event.
func (a *InputSourceArray) actionEdges(snap *Snapshot) []ActionEdge {
	var edges []ActionEdge
	for _, s := range a.sources {
		in, ok := snap.Input(s.ID)
		if !ok {
			continue
		}
		edges = appendEdge(edges, s, &s.primaryPressed, in.PrimaryPressed, EventSelectStart, EventSelect, EventSelectEnd)
		edges = appendEdge(edges, s, &s.squeezePressed, in.SqueezePressed, EventSqueezeStart, EventSqueeze, EventSqueezeEnd)
	}
	return edges
}

func appendEdge(edges []ActionEdge, s *InputSource, prev *bool, now bool, start, action, end string) []ActionEdge {
	switch {
	case now && !*prev:
		edges = append(edges, ActionEdge{s, start})
	case !now && *prev:
		edges = append(edges, ActionEdge{s, action}, ActionEdge{s, end})
	}
	*prev = now
	return edges
}
