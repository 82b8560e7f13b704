package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Jishaan-07/Employee-managment/internal/contacts"
)

// ContactsLister reads the remote collection.
type ContactsLister interface {
	List(ctx context.Context) ([]contacts.Employee, error)
}

// ContactsCLI offers operational helpers against the contacts resource.
type ContactsCLI struct {
	lister ContactsLister
}

// NewContactsCLI constructs a helper around lister.
func NewContactsCLI(lister ContactsLister) *ContactsCLI {
	return &ContactsCLI{lister: lister}
}

// ContactsListOptions defines available flags for the contacts list command.
type ContactsListOptions struct {
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// ListCommand prints the remote collection in server order.
func (c *ContactsCLI) ListCommand(ctx context.Context, opts ContactsListOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	employees, err := c.lister.List(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "contacts list: %v\n", err)
		return 1
	}
	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(employees); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "contacts list: encode json: %v\n", err)
			return 1
		}
		return 0
	}
	renderContactsHuman(opts.Stdout, employees)
	return 0
}

func renderContactsHuman(out io.Writer, employees []contacts.Employee) {
	if len(employees) == 0 {
		_, _ = fmt.Fprintln(out, "No employees found.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSTATUS")
	for _, emp := range employees {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", emp.ID, emp.Name, emp.Email, emp.Status)
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintf(out, "%d employee(s)\n", len(employees))
}
