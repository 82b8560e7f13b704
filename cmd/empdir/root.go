package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Jishaan-07/Employee-managment/cmd/empdir/cli"
	"github.com/Jishaan-07/Employee-managment/internal/app"
	"github.com/Jishaan-07/Employee-managment/internal/contacts"
)

// errReported marks failures whose message was already written to stderr.
var errReported = errors.New("empdir: command failed")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "empdir",
		Short:         "Employee directory web server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	cmd.AddCommand(newContactsCmd())
	return cmd
}

func newContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Inspect the remote contacts resource",
	}
	cmd.AddCommand(newContactsListCmd())
	return cmd
}

func newContactsListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the remote collection in server order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadContactsConfig()
			if err != nil {
				return err
			}
			client := contacts.NewClient(cfg.ContactsBaseURL, contacts.WithTimeout(cfg.ContactsTimeout))
			code := cli.NewContactsCLI(client).ListCommand(cmd.Context(), cli.ContactsListOptions{
				JSONOutput: jsonOutput,
				Stdout:     cmd.OutOrStdout(),
				Stderr:     cmd.ErrOrStderr(),
			})
			if code != 0 {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the collection as JSON")
	return cmd
}
