package models

import "time"

// SessionPhase is the tagged state of a fee session. A session is Idle until a
// cell is selected, Editing while the buffer is staged, and passes through
// Saving/Printing/Deleting while an upstream mutation is in flight. PrintReady
// keeps the buffer alive for the receipt until the session is closed.
type SessionPhase string

const (
	PhaseIdle       SessionPhase = "idle"
	PhaseEditing    SessionPhase = "editing"
	PhaseSaving     SessionPhase = "saving"
	PhasePrinting   SessionPhase = "printing"
	PhasePrintReady SessionPhase = "print_ready"
	PhaseDeleting   SessionPhase = "deleting"
)

// EditBuffer holds the staged, not-yet-saved values for the selected cell.
type EditBuffer struct {
	Value  float64       `json:"value"`
	Remain float64       `json:"remain"`
	Status FeeStatus     `json:"status"`
	PaidBy PaymentMethod `json:"paidBy"`
	Date   string        `json:"date"`
}

// FeeSession is the server-held state of one staff member's fee grid: the
// roster snapshot for the selected year and grade plus the cell-selection
// state machine.
type FeeSession struct {
	ID           string
	AcademicYear string
	GradeSlug    string
	GradeName    string
	Roster       []Student

	Phase       SessionPhase
	StudentSlug string
	Month       string
	Buffer      EditBuffer
	LastError   string

	// Seq increases with every mutation issued from this session. Responses
	// carrying a stale sequence are discarded so a slow earlier request can
	// never overwrite the outcome of a newer one.
	Seq uint64

	CreatedAt time.Time
	UpdatedAt time.Time
}
