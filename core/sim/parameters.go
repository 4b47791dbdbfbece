// core/sim/parameters.go
package sim

import (
	"fmt"
	"strings"
)

// Method selects the infection algorithm. Both resolves per replica:
// even identities run the encounter method, odd identities the shuffle
// method.
type Method uint8

const (
	MethodBoth Method = iota
	MethodOne
	MethodTwo
)

// ParseMethod accepts the names both, one and two, plus the numeric forms
// 0, 1 and 2.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "both", "0":
		return MethodBoth, nil
	case "one", "1":
		return MethodOne, nil
	case "two", "2":
		return MethodTwo, nil
	}
	return MethodBoth, fmt.Errorf("unknown infection method %q (want both, one or two)", s)
}

func (m Method) String() string {
	switch m {
	case MethodOne:
		return "one"
	case MethodTwo:
		return "two"
	default:
		return "both"
	}
}

// For resolves Both against a replica identity.
func (m Method) For(identity uint64) Method {
	if m != MethodBoth {
		return m
	}
	if identity%2 == 0 {
		return MethodOne
	}
	return MethodTwo
}

// DefaultReportInterval is the tally cadence used when ReportInterval is
// left unset.
const DefaultReportInterval = 100

// Parameters holds every input of a batch. One value is shared by all
// replicas; replicas never mutate it.
type Parameters struct {
	Replicas   int
	Identity   uint64 // replica id when Replicas <= 1
	Iterations int
	Agents     int
	Infections int
	Encounters int

	GrowthRate           float64
	DeathProbSusceptible float64
	DeathProbInfectious  float64
	RecoveryProb         float64
	VaccinationProb      float64
	RegressionProb       float64

	Method              Method
	ReportInterval      int
	AgentOutputInterval int // dump cadence in ticks, 0 disables
	AgentFile           string

	BaseSeed uint64 // replica seed = identity * (BaseSeed + 1)
}

// Defaults returns the canonical parameter set.
func Defaults() Parameters {
	return Parameters{
		Replicas:             20,
		Iterations:           365 * 4,
		Agents:               10000,
		Infections:           10,
		Encounters:           100,
		GrowthRate:           0.0001,
		DeathProbSusceptible: 0.0001,
		DeathProbInfectious:  0.001,
		RecoveryProb:         0.01,
		VaccinationProb:      0.001,
		RegressionProb:       0.0003,
		Method:               MethodBoth,
		ReportInterval:       DefaultReportInterval,
		AgentFile:            "agents.csv",
	}
}

// Validate reports the first out-of-range field.
func (p Parameters) Validate() error {
	if p.Replicas < 0 {
		return fmt.Errorf("simulations cannot be negative (got %d)", p.Replicas)
	}
	if p.Agents < 1 {
		return fmt.Errorf("agents must be at least 1 (got %d)", p.Agents)
	}
	if p.Infections < 0 || p.Infections > p.Agents {
		return fmt.Errorf("infections must be between 0 and agents (got %d with %d agents)", p.Infections, p.Agents)
	}
	if p.Iterations < 0 {
		return fmt.Errorf("iterations cannot be negative (got %d)", p.Iterations)
	}
	if p.Encounters < 0 {
		return fmt.Errorf("encounters cannot be negative (got %d)", p.Encounters)
	}
	if p.GrowthRate < 0 {
		return fmt.Errorf("growth rate cannot be negative (got %g)", p.GrowthRate)
	}
	probs := []struct {
		name  string
		value float64
	}{
		{"susceptible death probability", p.DeathProbSusceptible},
		{"infectious death probability", p.DeathProbInfectious},
		{"recovery probability", p.RecoveryProb},
		{"vaccination probability", p.VaccinationProb},
		{"regression probability", p.RegressionProb},
	}
	for _, pr := range probs {
		if pr.value < 0 || pr.value > 1 {
			return fmt.Errorf("%s must be within [0,1] (got %g)", pr.name, pr.value)
		}
	}
	if p.Method > MethodTwo {
		return fmt.Errorf("unknown infection method %d", p.Method)
	}
	if p.ReportInterval < 1 {
		return fmt.Errorf("report interval must be at least 1 (got %d)", p.ReportInterval)
	}
	if p.AgentOutputInterval < 0 {
		return fmt.Errorf("agent output interval cannot be negative (got %d)", p.AgentOutputInterval)
	}
	return nil
}
