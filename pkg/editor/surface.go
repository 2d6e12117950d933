package editor

// Surface identifies a live input surface (a code or prose editing widget).
// Surfaces are compared by identity: two surfaces with the same name are
// still different origins.
type Surface struct {
	name string
}

// NewSurface creates an origin token.
func NewSurface(name string) *Surface {
	return &Surface{name: name}
}

func (s *Surface) String() string {
	if s == nil {
		return "<none>"
	}
	return s.name
}

// origin records which surface produced the latest committed change. It is
// only valid for the update cycle it was recorded in.
type origin struct {
	surface *Surface
	blockID int
	cycle   uint64
}
