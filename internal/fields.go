package internal

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/open-sspm/sspmdocs/internal/schemadoc"
)

// writeFieldTable prints rows as an aligned plain-text table. Nested fields
// are indented two spaces per level.
func writeFieldTable(out io.Writer, rows []schemadoc.Row) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tTYPE\tREQUIRED\tDESCRIPTION\tDETAILS")
	for _, r := range rows {
		req := "optional"
		if r.Required {
			req = "required"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%s\n",
			strings.Repeat("  ", r.Depth), r.Field, r.Type, req, orDash(r.Description), orDash(r.Details))
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
