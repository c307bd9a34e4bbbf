package listview

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

func parseDate(d string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", d); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, d)
}

// RenderTable writes the snapshot as a text table, or the message for the
// loading, error and empty states.
func RenderTable(w io.Writer, s Snapshot) error {
	switch s.State {
	case StateLoading:
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	case StateError:
		_, err := fmt.Fprintln(w, s.Err)
		return err
	case StateEmpty:
		_, err := fmt.Fprintf(w, "No jobs found\n%s\n", s.EmptyHint())
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Company", "Position", "Location", "Status", "Application Date")
	for _, j := range s.Jobs {
		if err := table.Append(
			strconv.FormatInt(j.JobID(), 10),
			j.Company,
			j.Position,
			j.Location,
			j.Status.Label(),
			FormatDate(j.ApplicationDate),
		); err != nil {
			return err
		}
	}
	return table.Render()
}
