package reconcile

import "github.com/backmassage/quiltpair/internal/index"

// Classification is the outcome of reconciling one index row. It is one of
// Pairable, Missing or Skipped; the unexported method seals the set.
type Classification interface {
	IndexRow() index.Row
	isClassification()
}

// Pairable is a row whose image exists, has an accepted extension and a
// non-empty caption. PairIndex is fixed at classification time.
type Pairable struct {
	Row       index.Row
	Source    string // absolute path of the resolved image
	Caption   string // verbatim caption field
	Base      string // output base name: source stem without "_pair<N>"
	Ext       string // source extension as spelled on disk
	PairIndex int
}

// Missing is a row whose image reference resolves to nothing.
type Missing struct {
	Row       index.Row
	ImagePath string
}

// Skipped is a row rejected before resolution.
type Skipped struct {
	Row    index.Row
	Reason Reason
}

func (p Pairable) IndexRow() index.Row { return p.Row }
func (m Missing) IndexRow() index.Row  { return m.Row }
func (s Skipped) IndexRow() index.Row  { return s.Row }

func (Pairable) isClassification() {}
func (Missing) isClassification()  {}
func (Skipped) isClassification()  {}

// Reason says why a row was skipped.
type Reason int

const (
	ReasonEmptyCaption Reason = iota + 1
	ReasonExtension
	ReasonMalformedPath
)

func (r Reason) String() string {
	switch r {
	case ReasonEmptyCaption:
		return "empty caption"
	case ReasonExtension:
		return "unsupported extension"
	case ReasonMalformedPath:
		return "malformed path"
	default:
		return "unknown"
	}
}
