// internal/config/scenario.go
package config

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"abm-core/sim"
)

// Scenario is the TOML file schema for simulation parameters. Field names
// follow the canonical parameter set; every key is optional and absent
// keys keep whatever the decode target already holds.
type Scenario struct {
	Replicas             int     `toml:"replicas"`
	Identity             uint64  `toml:"identity"`
	Iterations           int     `toml:"iterations"`
	Agents               int     `toml:"agents"`
	Infections           int     `toml:"infections"`
	Encounters           int     `toml:"encounters"`
	GrowthRate           float64 `toml:"growth_rate"`
	DeathProbSusceptible float64 `toml:"death_prob_susceptible"`
	DeathProbInfectious  float64 `toml:"death_prob_infectious"`
	RecoveryProb         float64 `toml:"recovery_prob"`
	VaccinationProb      float64 `toml:"vaccination_prob"`
	RegressionProb       float64 `toml:"regression_prob"`
	Method               string  `toml:"method"`
	ReportInterval       int     `toml:"report_interval"`
	AgentOutputInterval  int     `toml:"agent_output_interval"`
	AgentFile            string  `toml:"agent_file"`
}

// FromParameters mirrors p into the file schema.
func FromParameters(p sim.Parameters) Scenario {
	return Scenario{
		Replicas:             p.Replicas,
		Identity:             p.Identity,
		Iterations:           p.Iterations,
		Agents:               p.Agents,
		Infections:           p.Infections,
		Encounters:           p.Encounters,
		GrowthRate:           p.GrowthRate,
		DeathProbSusceptible: p.DeathProbSusceptible,
		DeathProbInfectious:  p.DeathProbInfectious,
		RecoveryProb:         p.RecoveryProb,
		VaccinationProb:      p.VaccinationProb,
		RegressionProb:       p.RegressionProb,
		Method:               p.Method.String(),
		ReportInterval:       p.ReportInterval,
		AgentOutputInterval:  p.AgentOutputInterval,
		AgentFile:            p.AgentFile,
	}
}

// Parameters folds the scenario back onto base.
func (s Scenario) Parameters(base sim.Parameters) (sim.Parameters, error) {
	p := base
	p.Replicas = s.Replicas
	p.Identity = s.Identity
	p.Iterations = s.Iterations
	p.Agents = s.Agents
	p.Infections = s.Infections
	p.Encounters = s.Encounters
	p.GrowthRate = s.GrowthRate
	p.DeathProbSusceptible = s.DeathProbSusceptible
	p.DeathProbInfectious = s.DeathProbInfectious
	p.RecoveryProb = s.RecoveryProb
	p.VaccinationProb = s.VaccinationProb
	p.RegressionProb = s.RegressionProb
	m, err := sim.ParseMethod(s.Method)
	if err != nil {
		return p, err
	}
	p.Method = m
	p.ReportInterval = s.ReportInterval
	p.AgentOutputInterval = s.AgentOutputInterval
	p.AgentFile = s.AgentFile
	return p, nil
}

// Load decodes a scenario file over base. Keys absent from the file keep
// the base values; unknown keys are an error.
func Load(path string, base sim.Parameters) (sim.Parameters, error) {
	sc := FromParameters(base)
	md, err := toml.DecodeFile(path, &sc)
	if err != nil {
		return base, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return base, fmt.Errorf("scenario %s: unknown key %q", path, undecoded[0].String())
	}
	p, err := sc.Parameters(base)
	if err != nil {
		return base, fmt.Errorf("scenario %s: %w", path, err)
	}
	return p, nil
}

// WriteDefault emits the canonical scenario file.
func WriteDefault(w io.Writer) error {
	const preamble = "# Simulation scenario. Values here are overridden by ABM_* environment\n# variables and by explicit command-line flags.\n\n"
	if _, err := io.WriteString(w, preamble); err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(FromParameters(sim.Defaults()))
}
