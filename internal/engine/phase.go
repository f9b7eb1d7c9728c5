package engine

// Phase identifica la etapa del escaneo en curso. La máquina de estados
// avanza Idle → Counting → Hashing → Confirming → Ranking → Done, con
// Cancelled como terminal alternativo desde cualquier fase de trabajo.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseCounting
	PhaseHashing
	PhaseConfirming
	PhaseRanking
	PhaseDone
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCounting:
		return "counting"
	case PhaseHashing:
		return "hashing"
	case PhaseConfirming:
		return "confirming"
	case PhaseRanking:
		return "ranking"
	case PhaseDone:
		return "done"
	case PhaseCancelled:
		return "cancelled"
	}
	return "unknown"
}
