package placeholder

import "fmt"

type ID uint8

const (
	NotSet ID = iota
	ProjectionMatrix
	ViewMatrix
	ViewProjectionMatrix
	ViewProjectionMatrixForRightEye
)

var idNames = map[ID]string{
	NotSet:                          "NotSet",
	ProjectionMatrix:                "ProjectionMatrix",
	ViewMatrix:                      "ViewMatrix",
	ViewProjectionMatrix:            "ViewProjectionMatrix",
	ViewProjectionMatrixForRightEye: "ViewProjectionMatrixForRightEye",
}

func (id ID) String() string {
	if s, ok := idNames[id]; ok {
		return s
	}
	return fmt.Sprintf("ID(%d)", uint8(id))
}

// ParseID accepts the names printed by String.
func ParseID(s string) (ID, error) {
	for id, name := range idNames {
		if name == s && id != NotSet {
			return id, nil
		}
	}
	return NotSet, fmt.Errorf("placeholder: unknown matrix %q", s)
}

type Handedness uint8

const (
	RightHanded Handedness = iota
	LeftHanded
)

func (h Handedness) String() string {
	if h == LeftHanded {
		return "left"
	}
	return "right"
}

// ParseHandedness accepts "left" and "right".
func ParseHandedness(s string) (Handedness, error) {
	switch s {
	case "left":
		return LeftHanded, nil
	case "right":
		return RightHanded, nil
	}
	return RightHanded, fmt.Errorf("placeholder: invalid handedness %q", s)
}

// Graph asks the host to compute a camera matrix at draw time instead of
// receiving literal values.
type Graph struct {
	ID         ID
	Handedness Handedness
	Inverse    bool
	Multiview  bool
}

func (g Graph) String() string {
	s := fmt.Sprintf("%s(%s", g.ID, g.Handedness)
	if g.Inverse {
		s += ",inverse"
	}
	if g.Multiview {
		s += ",multiview"
	}
	return s + ")"
}
