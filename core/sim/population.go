// core/sim/population.go
package sim

import "sort"

const minCapacity = 10

// Population is an append-only buffer of agents. Size never decreases and
// the only permitted reorderings are Swap, used by shuffles, and SortByID
// before a dump. Capacity grows by about 1.5x so repeated growth events
// amortize to constant time per append.
type Population struct {
	agents []Agent
}

// NewPopulation returns n susceptible agents with identities 0..n-1.
func NewPopulation(n int) *Population {
	agents := make([]Agent, n, grownCap(n))
	for i := range agents {
		agents[i] = Agent{ID: uint64(i), State: Susceptible}
	}
	return &Population{agents: agents}
}

func grownCap(n int) int {
	c := n + n/2
	if c < minCapacity {
		c = minCapacity
	}
	return c
}

// Size returns the number of agents.
func (p *Population) Size() int { return len(p.agents) }

// Cap returns the allocated capacity.
func (p *Population) Cap() int { return cap(p.agents) }

// Agents returns the backing slice. Event passes mutate states through it
// but must not grow or shrink it.
func (p *Population) Agents() []Agent { return p.agents }

// At returns a pointer to the agent at position i.
func (p *Population) At(i int) *Agent { return &p.agents[i] }

// Append adds one agent in the given state under the next sequential
// identity, expanding capacity first when the buffer is full.
func (p *Population) Append(s State) {
	if len(p.agents) == cap(p.agents) {
		grown := make([]Agent, len(p.agents), grownCap(cap(p.agents)))
		copy(grown, p.agents)
		p.agents = grown
	}
	p.agents = append(p.agents, Agent{ID: uint64(len(p.agents)), State: s})
}

// Swap exchanges the agents at positions i and j.
func (p *Population) Swap(i, j int) {
	p.agents[i], p.agents[j] = p.agents[j], p.agents[i]
}

// SortByID restores identity order.
func (p *Population) SortByID() {
	sort.Slice(p.agents, func(i, j int) bool {
		return p.agents[i].ID < p.agents[j].ID
	})
}
