package repl

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/leengari/jumanji/internal/engine"
)

// Result is what executing one statement produces: a message, a row set, or
// both. Columns fixes the display order of the row set.
type Result struct {
	Columns []string
	Rows    []engine.Row
	Message string
}

// PrintResult renders a result as an aligned table.
func PrintResult(w io.Writer, res *Result) {
	if res == nil {
		return
	}

	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}

	if len(res.Columns) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// Header
	for i, col := range res.Columns {
		fmt.Fprintf(tw, "%s", col)
		if i < len(res.Columns)-1 {
			fmt.Fprintf(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	// Separator
	for i := range res.Columns {
		fmt.Fprintf(tw, "---")
		if i < len(res.Columns)-1 {
			fmt.Fprintf(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	// Rows
	for _, row := range res.Rows {
		for i, col := range res.Columns {
			val, ok := row[col]
			if !ok {
				fmt.Fprintf(tw, "NULL")
			} else {
				fmt.Fprintf(tw, "%v", val)
			}
			if i < len(res.Columns)-1 {
				fmt.Fprintf(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
}
