package sim

import "testing"

func TestNewPopulation_InitialLayout(t *testing.T) {
	p := NewPopulation(4)
	if p.Size() != 4 {
		t.Fatalf("size = %d, want 4", p.Size())
	}
	if p.Cap() != 10 {
		t.Fatalf("cap = %d, want the minimum of 10", p.Cap())
	}
	for i, a := range p.Agents() {
		if a.ID != uint64(i) || a.State != Susceptible {
			t.Fatalf("agent at %d = %+v, want sequential susceptible", i, a)
		}
	}
}

func TestNewPopulation_CapacityIsThreeHalves(t *testing.T) {
	p := NewPopulation(10000)
	if p.Cap() != 15000 {
		t.Fatalf("cap = %d, want 15000", p.Cap())
	}
}

func TestAppend_AssignsSequentialIdentities(t *testing.T) {
	p := NewPopulation(3)
	p.Append(Infectious)
	p.Append(Susceptible)
	if p.Size() != 5 {
		t.Fatalf("size = %d, want 5", p.Size())
	}
	if a := p.At(3); a.ID != 3 || a.State != Infectious {
		t.Fatalf("first appended agent = %+v", *a)
	}
	if a := p.At(4); a.ID != 4 || a.State != Susceptible {
		t.Fatalf("second appended agent = %+v", *a)
	}
}

func TestAppend_ExpandsCapacityByHalf(t *testing.T) {
	p := NewPopulation(10)
	for p.Size() < p.Cap() {
		p.Append(Susceptible)
	}
	if p.Cap() != 15 {
		t.Fatalf("cap before growth = %d, want 15", p.Cap())
	}
	p.Append(Susceptible)
	if p.Cap() != 22 {
		t.Fatalf("cap after growth = %d, want 22", p.Cap())
	}
	for i, a := range p.Agents() {
		if a.ID != uint64(i) {
			t.Fatalf("agent at %d has ID %d after growth", i, a.ID)
		}
	}
}

func TestSortByID_RestoresIdentityOrder(t *testing.T) {
	p := NewPopulation(5)
	p.Swap(0, 4)
	p.Swap(1, 3)
	p.SortByID()
	for i, a := range p.Agents() {
		if a.ID != uint64(i) {
			t.Fatalf("position %d holds ID %d after sort", i, a.ID)
		}
	}
}
