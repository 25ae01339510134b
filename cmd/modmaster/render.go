// cmd/modmaster/render.go
package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tamzrod/modbus-master/internal/engine"
	"github.com/tamzrod/modbus-master/internal/status"
	"github.com/tamzrod/modbus-master/internal/store"
	"github.com/tamzrod/modbus-master/internal/traffic"
)

// renderCells prints the register table. Invalid cells show "-".
func renderCells(out io.Writer, s *store.Store) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tVALUE")
	for i, c := range s.Cells() {
		v := "-"
		if c.Valid {
			v = s.Text(i)
		}
		fmt.Fprintf(w, "%d\t%s\n", c.Address, v)
	}
	w.Flush()
}

func renderTraffic(out io.Writer, l *traffic.Log) {
	for _, line := range l.Lines() {
		fmt.Fprintln(out, line)
	}
}

func statusLine(e *engine.Engine) string {
	return status.Line(e.Status())
}
