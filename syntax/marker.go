package syntax

import (
	"github.com/google/uuid"
)

// Marker kinds
const (
	KindTracking = "qualify.tracking"
	KindSimplify = "qualify.simplify"
)

// Marker tags a span so it can be found again after the document has been
// rewritten. Markers are plain values and compare with ==.
type Marker struct {
	Kind string `json:"kind"`
	ID   string `json:"id,omitempty"`
}

// SimplifyMarker asks the simplification engine to reduce the tagged span.
var SimplifyMarker = Marker{Kind: KindSimplify}

// NewTrackingMarker returns a marker no other span carries.
func NewTrackingMarker() Marker {
	return Marker{Kind: KindTracking, ID: uuid.NewString()}
}

func (m Marker) String() string {
	if m.ID == "" {
		return m.Kind
	}
	return m.Kind + ":" + m.ID
}
