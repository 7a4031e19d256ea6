package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/orrery/internal/sim"
)

type ExportData struct {
	Catalog  string             `json:"catalog"`
	Method   string             `json:"method"`
	TimeStep float64            `json:"time_step"`
	Steps    int                `json:"steps"`
	Energy   sim.Energy         `json:"energy"`
	State    sim.State          `json:"state"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes the final state of a run as indented JSON.
func ExportJSON(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
