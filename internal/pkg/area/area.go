// Package area models the distributed-area hierarchy of a feeder: the
// feeder itself, its switch areas and their secondary areas.
package area

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingParent is returned when an area's parent is not registered
var ErrMissingParent = errors.New("parent area not found")

// Level is the depth of an area in the hierarchy
type Level int

const (
	Feeder Level = iota
	SwitchArea
	SecondaryArea
)

func (l Level) String() string {
	switch l {
	case Feeder:
		return "feeder"
	case SwitchArea:
		return "switch_area"
	case SecondaryArea:
		return "secondary_area"
	}
	return "unknown"
}

// MarshalText renders the level name in JSON
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Area identifies one distributed area. Parent is empty for a feeder.
type Area struct {
	ID     string `json:"id"`
	Level  Level  `json:"level"`
	Parent string `json:"parent,omitempty"`
}

// New derives the parent of id from its dotted form: a switch area F.S
// belongs to feeder F and a secondary area F.S.k to switch area F.S.
func New(id string, level Level) (Area, error) {
	parent, err := ParentID(id, level)
	if err != nil {
		return Area{}, err
	}
	return Area{ID: id, Level: level, Parent: parent}, nil
}

// ParentID returns the id of the area one level up
func ParentID(id string, level Level) (string, error) {
	if id == "" {
		return "", errors.New("empty area id")
	}
	parts := strings.Split(id, ".")
	switch level {
	case Feeder:
		return "", nil
	case SwitchArea:
		if len(parts) < 2 {
			return "", fmt.Errorf("switch area id %q has no feeder part", id)
		}
		return strings.Join(parts[:len(parts)-1], "."), nil
	case SecondaryArea:
		if len(parts) < 3 {
			return "", fmt.Errorf("secondary area id %q has no switch area part", id)
		}
		return strings.Join(parts[:2], "."), nil
	}
	return "", fmt.Errorf("unknown level %d", level)
}
