package commands

import (
	"context"

	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/spf13/cobra"
)

// NewExtensionsCommand creates the profile extension command group.
func NewExtensionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "extensions",
		Aliases: []string{"extension", "pet"},
		Short:   "Manage profile extension rows",
		Long:    "Merge, look up and delete rows of a profile extension table",
	}

	cmd.AddCommand(newExtensionsGetCommand())
	cmd.AddCommand(newExtensionsMergeCommand())
	cmd.AddCommand(newExtensionsDeleteCommand())

	return cmd
}

func newExtensionsGetCommand() *cobra.Command {
	return createGetCommand(
		"get LIST EXTENSION CUSTOMER_ID",
		"Get an extension row by customer ID",
		"Look up a profile extension row by customer ID, returning all fields",
		3,
		func(ctx context.Context, client responsys.Client, args []string) (responsys.Record, error) {
			return client.ExtensionMembers().GetByCustomerID(ctx, args[0], args[1], args[2])
		},
	)
}

func newExtensionsMergeCommand() *cobra.Command {
	return createMergeCommand(
		"merge LIST EXTENSION",
		"Merge rows into a profile extension",
		"Insert or replace up to 200 extension rows read from a JSON or YAML file",
		2, true,
		func(ctx context.Context, client responsys.Client, args []string, records []responsys.Record, matchColumn string) (*responsys.MergeResult, error) {
			return client.ExtensionMembers().Merge(ctx, args[0], args[1], records, matchColumn)
		},
	)
}

func newExtensionsDeleteCommand() *cobra.Command {
	return createDeleteCommand(
		"delete LIST EXTENSION CUSTOMER_ID",
		"Delete an extension row",
		"Delete a profile extension row by customer ID",
		"extension row", 3,
		func(ctx context.Context, client responsys.Client, args []string) error {
			return client.ExtensionMembers().Delete(ctx, args[0], args[1], args[2])
		},
	)
}
