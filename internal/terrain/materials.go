package terrain

import "fmt"

// MaterialKind is the broad class of material a submesh is drawn with.
type MaterialKind uint8

// Material kinds.
const (
	MaterialSurface MaterialKind = iota
	MaterialEdge
	MaterialWater
)

// String returns a human-readable material kind name.
func (k MaterialKind) String() string {
	switch k {
	case MaterialSurface:
		return "surface"
	case MaterialEdge:
		return "edge"
	case MaterialWater:
		return "water"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// RequestedMaterial identifies the material bound to one submesh.
type RequestedMaterial struct {
	Kind  MaterialKind
	Style uint8
}

// String returns "kind/style".
func (m RequestedMaterial) String() string {
	return fmt.Sprintf("%s/%d", m.Kind, m.Style)
}

// MaterialRegistry assigns submesh indices to materials in first-seen order.
// Only a handful of materials exist per map, so lookups scan linearly.
type MaterialRegistry struct {
	requested []RequestedMaterial
}

// Index returns the submesh index for (kind, style), registering it if new.
func (r *MaterialRegistry) Index(kind MaterialKind, style uint8) int {
	want := RequestedMaterial{Kind: kind, Style: style}
	for i, m := range r.requested {
		if m == want {
			return i
		}
	}
	r.requested = append(r.requested, want)
	return len(r.requested) - 1
}

// IndexOf returns the submesh index for the style-agnostic bucket of kind.
func (r *MaterialRegistry) IndexOf(kind MaterialKind) int {
	return r.Index(kind, 0)
}

// Reset forgets all assignments. Called once at the start of every rebuild.
func (r *MaterialRegistry) Reset() {
	r.requested = r.requested[:0]
}

// Len returns the number of registered materials.
func (r *MaterialRegistry) Len() int {
	return len(r.requested)
}

// Materials returns a copy of the registered materials, indexed by submesh.
func (r *MaterialRegistry) Materials() []RequestedMaterial {
	return append([]RequestedMaterial(nil), r.requested...)
}
