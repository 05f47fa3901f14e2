package core

// Side tags whether a vertex descends from the goal's left-hand or
// right-hand expression.
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Root returns the reserved root vertex id for the side.
func (s Side) Root() VertexID {
	if s == SideLeft {
		return LeftRootID
	}
	return RightRootID
}

// String returns a string representation of the Side.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}
