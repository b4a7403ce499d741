package models

// FoundStatus is the lifecycle status of a found report. Transitions only
// move forward: reported -> stored -> resolved.
type FoundStatus string

// Found report statuses
const (
	FoundStatusReported FoundStatus = "reported"
	FoundStatusStored   FoundStatus = "stored"
	FoundStatusResolved FoundStatus = "resolved"
)

// LostStatus is the lifecycle status of a lost report
type LostStatus string

// Lost report statuses. LostStatusResolved exists in the data model but no
// current endpoint transitions to it.
const (
	LostStatusOpen     LostStatus = "open"
	LostStatusResolved LostStatus = "resolved"
)

// foundTransitions is the closed transition table for found reports.
// stored -> stored is legal so that Store stays idempotent-by-overwrite.
var foundTransitions = map[FoundStatus][]FoundStatus{
	FoundStatusReported: {FoundStatusStored},
	FoundStatusStored:   {FoundStatusStored, FoundStatusResolved},
	FoundStatusResolved: {},
}

// CanTransition reports whether a found report may move from one status to
// another
func (s FoundStatus) CanTransition(to FoundStatus) bool {
	for _, next := range foundTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known found report status
func (s FoundStatus) Valid() bool {
	switch s {
	case FoundStatusReported, FoundStatusStored, FoundStatusResolved:
		return true
	}
	return false
}
