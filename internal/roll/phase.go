package roll

// phase is the position of a transaction in its lifecycle.
// Idle -> Locked -> Debited -> Resolving -> Committing -> Done, or RolledBack from any
// phase after Debited.
type phase string

const (
	phaseIdle       phase = "idle"
	phaseLocked     phase = "locked"
	phaseDebited    phase = "debited"
	phaseResolving  phase = "resolving"
	phaseCommitting phase = "committing"
	phaseDone       phase = "done"
	phaseRolledBack phase = "rolled_back"
)

// refundable reports whether currency has left the user's balance in this phase.
func (p phase) refundable() bool {
	switch p {
	case phaseDebited, phaseResolving, phaseCommitting:
		return true
	default:
		return false
	}
}
