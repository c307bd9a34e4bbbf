package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"jobtracker/internal/app"
	"jobtracker/internal/domain"
	"jobtracker/internal/jobform"
	"jobtracker/internal/listview"
)

type jobFlag struct {
	field string
	name  string
	value *string
}

// jobFlags binds one flag per form field.
type jobFlags []jobFlag

func addJobFlags(fs *pflag.FlagSet) jobFlags {
	var jf jobFlags
	for _, f := range []struct{ field, name, usage string }{
		{jobform.FieldCompany, "company", "company name"},
		{jobform.FieldPosition, "position", "position title"},
		{jobform.FieldLocation, "location", "job location"},
		{jobform.FieldApplicationURL, "url", "application URL"},
		{jobform.FieldStatus, "status", "APPLIED, INTERVIEWING, ACCEPTED or REJECTED"},
		{jobform.FieldNotes, "notes", "free-form notes"},
		{jobform.FieldApplicationDate, "date", "application date YYYY-MM-DD"},
	} {
		jf = append(jf, jobFlag{field: f.field, name: f.name, value: fs.String(f.name, "", f.usage)})
	}
	return jf
}

// apply copies the flags the user set onto the form.
func (jf jobFlags) apply(fs *pflag.FlagSet, f *jobform.Form) error {
	for _, fl := range jf {
		if !fs.Changed(fl.name) {
			continue
		}
		if err := f.Set(fl.field, *fl.value); err != nil {
			return err
		}
	}
	return nil
}

// submit runs the form and prints the outcome.
func submit(cmd *cobra.Command, sess *app.Session) error {
	res := sess.SubmitForm(cmd.Context())
	reportNotifications(cmd, sess)

	job, err := res.Get()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "#%d %s - %s (%s)\n", job.JobID(), job.Company, job.Position, job.Status)
	return nil
}

func newAddCmd(g *globalFlags) *cobra.Command {
	var jf jobFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a job application",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, _, err := openSession(cmd, g)
			if err != nil {
				return err
			}
			defer sess.Close()

			f := sess.OpenCreate()
			if err := jf.apply(cmd.Flags(), f); err != nil {
				return err
			}
			return submit(cmd, sess)
		},
	}
	jf = addJobFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("position")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newEditCmd(g *globalFlags) *cobra.Command {
	var jf jobFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a job application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			sess, _, err := openSession(cmd, g)
			if err != nil {
				return err
			}
			defer sess.Close()

			job, err := findJob(cmd, sess, id)
			if err != nil {
				return err
			}
			f := sess.OpenEdit(job)
			if err := jf.apply(cmd.Flags(), f); err != nil {
				return err
			}
			return submit(cmd, sess)
		},
	}
	jf = addJobFlags(cmd.Flags())
	return cmd
}

func parseJobID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id %q", s)
	}
	return id, nil
}

func findJob(cmd *cobra.Command, sess *app.Session, id int64) (domain.Job, error) {
	view := sess.List()
	view.ClearFilter(cmd.Context())
	snap := view.Snapshot()
	if snap.State == listview.StateError {
		reportNotifications(cmd, sess)
		return domain.Job{}, errors.New(snap.Err)
	}
	for _, j := range snap.Jobs {
		if j.JobID() == id {
			return j, nil
		}
	}
	return domain.Job{}, fmt.Errorf("job #%d not found", id)
}
