package model

import "time"

// LookupOutcome is the oracle's answer for a single word
type LookupOutcome string

const (
	LookupFound       LookupOutcome = "found"
	LookupNotFound    LookupOutcome = "not_found"
	LookupUnreachable LookupOutcome = "unreachable" // transport failure, not a verdict
)

// IsVerdict returns true for definitive linguistic answers
func (o LookupOutcome) IsVerdict() bool {
	return o == LookupFound || o == LookupNotFound
}

// OutcomeKind classifies how a released gesture ended
type OutcomeKind string

const (
	OutcomeTooShort    OutcomeKind = "too_short"
	OutcomeAccepted    OutcomeKind = "accepted"
	OutcomeRejected    OutcomeKind = "rejected"
	OutcomeUnreachable OutcomeKind = "unreachable"
	OutcomeExpired     OutcomeKind = "expired" // verdict arrived after the clock ran out
)

// Outcome is the result of releasing a selection
type Outcome struct {
	Kind    OutcomeKind
	Word    string
	Path    []Position
	Points  int
	Message string
	At      time.Time
}

// Scored returns true if the outcome changed the score and grid
func (o *Outcome) Scored() bool {
	return o.Kind == OutcomeAccepted
}
