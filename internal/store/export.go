package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/modsim/internal/ode"
)

// ExportData is the JSON layout for one finished run.
type ExportData struct {
	Model     string         `json:"model"`
	Solver    string         `json:"solver"`
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Steps     int            `json:"steps"`
	Rejected  int            `json:"rejected"`
	Evals     int            `json:"evals"`
	Labels    []string       `json:"labels"`
	Crossings []CrossingData `json:"crossings,omitempty"`
	Times     []float64      `json:"times"`
	States    [][]float64    `json:"states"`
}

type CrossingData struct {
	Name  string    `json:"name"`
	Time  float64   `json:"time"`
	State []float64 `json:"state"`
}

func WriteJSON(w io.Writer, model, solver string, labels []string, res *ode.Result) error {
	data := ExportData{
		Model:    model,
		Solver:   solver,
		Success:  res.Success,
		Message:  res.Message,
		Steps:    res.Steps,
		Rejected: res.Rejected,
		Evals:    res.Evals,
		Labels:   labels,
		Times:    res.Times,
		States:   make([][]float64, len(res.States)),
	}
	for i, s := range res.States {
		data.States[i] = s
	}
	for _, c := range res.Crossings {
		data.Crossings = append(data.Crossings, CrossingData{Name: c.Name, Time: c.T, State: c.X})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteCSV writes the trajectory as one row per sample, time first.
func WriteCSV(w io.Writer, labels []string, res *ode.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(append([]string{"t"}, labels...)); err != nil {
		return err
	}

	row := make([]string, len(labels)+1)
	for i, t := range res.Times {
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for j, v := range res.States[i] {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}
