package commands

import (
	"context"

	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/spf13/cobra"
)

// NewSupplementalCommand creates the supplemental table command group.
func NewSupplementalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "supplemental",
		Aliases: []string{"supp"},
		Short:   "Manage supplemental table rows",
		Long:    "Merge, look up and delete rows of a supplemental table",
	}

	cmd.AddCommand(newSupplementalGetCommand())
	cmd.AddCommand(newSupplementalMergeCommand())
	cmd.AddCommand(newSupplementalDeleteCommand())

	return cmd
}

func newSupplementalGetCommand() *cobra.Command {
	return createGetCommand(
		"get FOLDER TABLE CUSTOMER_ID",
		"Get a supplemental row by customer ID",
		"Look up a supplemental table row by CUSTOMER_ID_, returning all fields",
		3,
		func(ctx context.Context, client responsys.Client, args []string) (responsys.Record, error) {
			return client.SupplementalMembers().GetByCustomerID(ctx, args[0], args[1], args[2])
		},
	)
}

func newSupplementalMergeCommand() *cobra.Command {
	return createMergeCommand(
		"merge FOLDER TABLE",
		"Merge rows into a supplemental table",
		"Insert or replace up to 200 supplemental rows read from a JSON or YAML file",
		2, false,
		func(ctx context.Context, client responsys.Client, args []string, records []responsys.Record, _ string) (*responsys.MergeResult, error) {
			return client.SupplementalMembers().Merge(ctx, args[0], args[1], records)
		},
	)
}

func newSupplementalDeleteCommand() *cobra.Command {
	return createDeleteCommand(
		"delete FOLDER TABLE CUSTOMER_ID",
		"Delete a supplemental row",
		"Delete a supplemental table row by CUSTOMER_ID_",
		"supplemental row", 3,
		func(ctx context.Context, client responsys.Client, args []string) error {
			return client.SupplementalMembers().Delete(ctx, args[0], args[1], args[2])
		},
	)
}
