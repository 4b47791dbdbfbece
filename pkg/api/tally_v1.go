// pkg/api/tally_v1.go
package api

// TallyV1 is the stable JSONL schema for tally snapshots.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type TallyV1 struct {
	Replica         uint64 `json:"replica"`
	Iteration       int    `json:"iter"`
	Susceptible     int    `json:"s"`
	Infectious      int    `json:"i"`
	Recovered       int    `json:"r"`
	Vaccinated      int    `json:"v"`
	Dead            int    `json:"d"`
	TotalInfections uint64 `json:"ti"`
	InfectionDeaths uint64 `json:"tid"`
}
