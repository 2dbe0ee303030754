package store

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/modsim/internal/ode"
)

// Recorder streams accepted samples as CSV rows during a run. It
// implements ode.Observer; attach it with Driver.AddObserver. The
// first write error sticks and is reported by Flush.
type Recorder struct {
	w   *csv.Writer
	row []string
	err error
}

func NewRecorder(w io.Writer, labels []string) *Recorder {
	r := &Recorder{
		w:   csv.NewWriter(w),
		row: make([]string, len(labels)+1),
	}
	r.err = r.w.Write(append([]string{"t"}, labels...))
	return r
}

func (r *Recorder) OnStep(t float64, x ode.State) {
	if r.err != nil {
		return
	}
	r.row[0] = strconv.FormatFloat(t, 'g', -1, 64)
	for i, v := range x {
		r.row[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	r.err = r.w.Write(r.row)
}

// Flush drains buffered rows and reports the first error seen.
func (r *Recorder) Flush() error {
	r.w.Flush()
	if r.err != nil {
		return r.err
	}
	return r.w.Error()
}
