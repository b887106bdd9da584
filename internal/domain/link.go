package domain

import (
	"crypto/sha256"
	"fmt"
)

// LinkType classifies a cable segment.
type LinkType string

const (
	LinkTypeDistribution LinkType = "distribution" // pole to pole
	LinkTypeConnection   LinkType = "connection"   // pole to consumer
)

// Valid reports whether the value is one of the enumerated link types.
func (t LinkType) Valid() bool {
	switch t {
	case LinkTypeDistribution, LinkTypeConnection:
		return true
	}
	return false
}

// Link lengths supplied by the caller must agree with the haversine
// distance between the endpoints within this tolerance: one meter or 5%
// of the computed distance, whichever is larger.
const (
	lengthToleranceMeters = 1.0
	lengthToleranceRatio  = 0.05
)

// Link is a cable segment between two positions. Links are keyed by their
// coordinate pair, not by node identity: at authoring time the endpoints
// need not exist as nodes yet. A link is immutable once created; a changed
// link is a removal plus an insertion.
type Link struct {
	ID     string
	From   Position
	To     Position
	Type   LinkType
	Length float64 // meters
}

// NewLink creates a link, computing Length from the endpoints when length
// is nil. Coincident endpoints and zero or inconsistent supplied lengths
// are rejected.
func NewLink(from, to Position, linkType LinkType, length *float64) (*Link, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}
	if err := to.Validate(); err != nil {
		return nil, err
	}
	if !linkType.Valid() {
		return nil, validationErrorf("link_type", "unknown value %q", linkType)
	}
	if from.Key() == to.Key() {
		return nil, validationErrorf("link", "coincident endpoints %s", from)
	}

	computed := from.DistanceTo(to)
	l := computed
	if length != nil {
		if *length <= 0 {
			return nil, validationErrorf("length", "zero-length link at %s -> %s", from, to)
		}
		tolerance := lengthToleranceMeters
		if r := computed * lengthToleranceRatio; r > tolerance {
			tolerance = r
		}
		if diff := *length - computed; diff > tolerance || diff < -tolerance {
			return nil, validationErrorf("length",
				"supplied length %.2fm inconsistent with endpoint distance %.2fm", *length, computed)
		}
		l = *length
	}

	link := &Link{From: from, To: to, Type: linkType, Length: l}
	link.ID = link.generateID()
	return link, nil
}

// generateID derives a deterministic identity from the normalized endpoint
// keys and the link type, so the same segment always maps to the same id.
func (l *Link) generateID() string {
	a, b := l.From.Key(), l.To.Key()
	if b.Lat < a.Lat || (b.Lat == a.Lat && b.Lon < a.Lon) {
		a, b = b, a
	}
	key := fmt.Sprintf("%v,%v-%v,%v-%s", a.Lat, a.Lon, b.Lat, b.Lon, l.Type)
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", hash[:8])
}

// Touches reports whether either endpoint resolves to the given coordinate
// identity.
func (l *Link) Touches(key PositionKey) bool {
	return l.From.Key() == key || l.To.Key() == key
}
