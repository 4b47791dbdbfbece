// core/sim/state.go
package sim

// State is an agent's epidemiological state. Agents enter Dead through
// the death step and are then skipped by every draw-consuming rule.
type State uint8

const (
	Susceptible State = iota
	Infectious
	Recovered
	Vaccinated
	Dead
)

// Letter returns the single-letter encoding used in agent dump files.
func (s State) Letter() byte {
	switch s {
	case Susceptible:
		return 'S'
	case Infectious:
		return 'I'
	case Recovered:
		return 'R'
	case Vaccinated:
		return 'V'
	case Dead:
		return 'D'
	}
	return '?'
}

func (s State) String() string {
	switch s {
	case Susceptible:
		return "susceptible"
	case Infectious:
		return "infectious"
	case Recovered:
		return "recovered"
	case Vaccinated:
		return "vaccinated"
	case Dead:
		return "dead"
	}
	return "unknown"
}

// Agent pairs a permanent identity with a mutable state. Identities are
// assigned sequentially from zero and never reused.
type Agent struct {
	ID    uint64
	State State
}
