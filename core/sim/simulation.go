// core/sim/simulation.go

// Package sim implements a stochastic agent-based epidemic model. A
// population of agents moves between susceptible, infectious, recovered,
// vaccinated and dead states under a fixed per-tick event order. Every
// random decision flows through one generator owned by the simulation, so
// a replica's whole trajectory is a function of its parameters and seed.
package sim

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"abm-core/rng"
)

// Tally is a snapshot of the state counts plus the cumulative counters.
type Tally struct {
	Susceptible     int
	Infectious      int
	Recovered       int
	Vaccinated      int
	Dead            int
	TotalInfections uint64
	InfectionDeaths uint64
}

// Reporter receives one callback per reporting tick. A non-nil error
// aborts the run.
type Reporter interface {
	Report(s *Simulation, iteration int) error
}

// Simulation is a single replica: identity, population, generator and the
// two monotone counters. It is mutated only by the goroutine running it.
type Simulation struct {
	identity uint64
	params   Parameters
	method   Method
	rng      *rng.LCG
	pop      *Population

	totalInfections uint64
	infectionDeaths uint64
}

// New builds a replica. The population starts as p.Agents susceptible
// agents, is shuffled with the replica's own generator, and the first
// p.Infections positions become infectious. The generator seed is
// identity * (p.BaseSeed + 1); with the default base the identity is the
// seed. p is expected to have passed Validate; a non-positive
// ReportInterval falls back to DefaultReportInterval.
func New(identity uint64, p Parameters) *Simulation {
	if p.ReportInterval < 1 {
		p.ReportInterval = DefaultReportInterval
	}
	s := &Simulation{
		identity: identity,
		params:   p,
		method:   p.Method.For(identity),
		rng:      rng.New(identity * (p.BaseSeed + 1)),
		pop:      NewPopulation(p.Agents),
	}
	s.rng.Shuffle(s.pop.Size(), s.pop.Swap)
	ags := s.pop.Agents()
	for i := 0; i < p.Infections; i++ {
		ags[i].State = Infectious
	}
	s.totalInfections = uint64(p.Infections)
	return s
}

// Identity returns the replica id.
func (s *Simulation) Identity() uint64 { return s.identity }

// Parameters returns the replica's inputs.
func (s *Simulation) Parameters() Parameters { return s.params }

// Run executes the configured number of ticks. The reporter fires at tick
// 0, at every ReportInterval-th tick, and at the final tick.
func (s *Simulation) Run(rep Reporter) error {
	if err := rep.Report(s, 0); err != nil {
		return err
	}
	for i := 0; i < s.params.Iterations; i++ {
		s.tick()
		if i != 0 && i%s.params.ReportInterval == 0 {
			if err := rep.Report(s, i); err != nil {
				return err
			}
		}
	}
	return rep.Report(s, s.params.Iterations)
}

// tick applies the event pipeline in its fixed order. Events run in
// place: each observes the writes of the ones before it in the same tick.
func (s *Simulation) tick() {
	s.grow()
	s.infect()
	s.recoverInfectious()
	s.vaccinate()
	s.regress()
	s.die()
}

// grow appends round(GrowthRate * live) susceptible agents, where live
// counts every non-dead agent.
func (s *Simulation) grow() {
	live := 0
	for _, a := range s.pop.Agents() {
		if a.State != Dead {
			live++
		}
	}
	n := int(math.Round(s.params.GrowthRate * float64(live)))
	for i := 0; i < n; i++ {
		s.pop.Append(Susceptible)
	}
}

func (s *Simulation) infect() {
	if s.method == MethodOne {
		s.infectEncounters()
	} else {
		s.infectShuffle()
	}
}

// infectEncounters models Encounters random meetings per tick: two
// uniform index draws, and a susceptible/infectious pair in either order
// infects the susceptible agent. Both draws happen before the states are
// checked, and an agent may meet itself.
func (s *Simulation) infectEncounters() {
	ags := s.pop.Agents()
	size := uint64(len(ags))
	for n := 0; n < s.params.Encounters; n++ {
		i := s.rng.To(size)
		j := s.rng.To(size)
		if ags[i].State == Susceptible && ags[j].State == Infectious {
			ags[i].State = Infectious
			s.totalInfections++
		} else if ags[i].State == Infectious && ags[j].State == Susceptible {
			ags[j].State = Infectious
			s.totalInfections++
		}
	}
}

// infectShuffle pairs agents by alignment instead of repeated draws:
// record the susceptible positions within the scan window, shuffle the
// whole population, then for each recorded slot i an infectious occupant
// of position i infects whoever now sits at the recorded position. The
// recorded positions are pre-shuffle values applied post-shuffle, and the
// target's current state is not checked before it is overwritten; both
// quirks are load-bearing for reproducing a given seed's trajectory.
func (s *Simulation) infectShuffle() {
	indices := s.susceptibleIndices(s.params.Encounters)
	s.rng.Shuffle(s.pop.Size(), s.pop.Swap)
	ags := s.pop.Agents()
	for i, target := range indices {
		if ags[i].State == Infectious {
			ags[target].State = Infectious
			s.totalInfections++
		}
	}
}

// susceptibleIndices scans positions 0..max-1, clamped to the population
// size, and returns the positions holding susceptible agents.
func (s *Simulation) susceptibleIndices(max int) []int {
	var indices []int
	for i, a := range s.pop.Agents() {
		if i >= max {
			break
		}
		if a.State == Susceptible {
			indices = append(indices, i)
		}
	}
	return indices
}

// recoverInfectious moves infectious agents to recovered. Only eligible
// agents consume a draw.
func (s *Simulation) recoverInfectious() {
	ags := s.pop.Agents()
	for i := range ags {
		if ags[i].State == Infectious && s.rng.Real() < s.params.RecoveryProb {
			ags[i].State = Recovered
		}
	}
}

// vaccinate moves susceptible agents to vaccinated.
func (s *Simulation) vaccinate() {
	ags := s.pop.Agents()
	for i := range ags {
		if ags[i].State == Susceptible && s.rng.Real() < s.params.VaccinationProb {
			ags[i].State = Vaccinated
		}
	}
}

// regress moves vaccinated and recovered agents back to susceptible.
func (s *Simulation) regress() {
	ags := s.pop.Agents()
	for i := range ags {
		if (ags[i].State == Vaccinated || ags[i].State == Recovered) &&
			s.rng.Real() < s.params.RegressionProb {
			ags[i].State = Susceptible
		}
	}
}

// die kills susceptible and infectious agents under their separate death
// probabilities. Recovered and vaccinated agents never die and consume no
// draw. An infectious death increments InfectionDeaths.
func (s *Simulation) die() {
	ags := s.pop.Agents()
	for i := range ags {
		switch ags[i].State {
		case Susceptible:
			if s.rng.Real() < s.params.DeathProbSusceptible {
				ags[i].State = Dead
			}
		case Infectious:
			if s.rng.Real() < s.params.DeathProbInfectious {
				ags[i].State = Dead
				s.infectionDeaths++
			}
		}
	}
}

// Tally counts the population by state in one pass and copies the
// cumulative counters.
func (s *Simulation) Tally() Tally {
	t := Tally{
		TotalInfections: s.totalInfections,
		InfectionDeaths: s.infectionDeaths,
	}
	for _, a := range s.pop.Agents() {
		switch a.State {
		case Susceptible:
			t.Susceptible++
		case Infectious:
			t.Infectious++
		case Recovered:
			t.Recovered++
		case Vaccinated:
			t.Vaccinated++
		case Dead:
			t.Dead++
		}
	}
	return t
}

// AgentDumpHeader is the first line of an agent dump file.
const AgentDumpHeader = "id,state"

// WriteAgents sorts the population by identity in place, then writes the
// dump: a header line and one id,letter row per agent. The sort is
// visible to subsequent ticks.
func (s *Simulation) WriteAgents(w io.Writer) error {
	s.pop.SortByID()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, AgentDumpHeader); err != nil {
		return err
	}
	for _, a := range s.pop.Agents() {
		if _, err := fmt.Fprintf(bw, "%d,%c\n", a.ID, a.State.Letter()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
