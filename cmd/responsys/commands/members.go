package commands

import (
	"context"

	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/spf13/cobra"
)

// NewMembersCommand creates the profile list members command group.
func NewMembersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "members",
		Aliases: []string{"member"},
		Short:   "Manage profile list members",
		Long:    "Merge, look up and delete members of a Responsys profile list",
	}

	cmd.AddCommand(newMembersGetCommand())
	cmd.AddCommand(newMembersMergeCommand())
	cmd.AddCommand(newMembersDeleteCommand())

	return cmd
}

func newMembersGetCommand() *cobra.Command {
	return createGetCommand(
		"get LIST CUSTOMER_ID",
		"Get a member by customer ID",
		"Look up a profile list member by customer ID, returning all fields",
		2,
		func(ctx context.Context, client responsys.Client, args []string) (responsys.Record, error) {
			return client.ProfileMembers().GetByCustomerID(ctx, args[0], args[1])
		},
	)
}

func newMembersMergeCommand() *cobra.Command {
	return createMergeCommand(
		"merge LIST",
		"Merge members into a profile list",
		"Insert or replace up to 200 members read from a JSON or YAML file",
		1, true,
		func(ctx context.Context, client responsys.Client, args []string, records []responsys.Record, matchColumn string) (*responsys.MergeResult, error) {
			return client.ProfileMembers().Merge(ctx, args[0], records, matchColumn)
		},
	)
}

func newMembersDeleteCommand() *cobra.Command {
	return createDeleteCommand(
		"delete LIST CUSTOMER_ID",
		"Delete a member",
		"Delete a profile list member by customer ID",
		"member", 2,
		func(ctx context.Context, client responsys.Client, args []string) error {
			return client.ProfileMembers().Delete(ctx, args[0], args[1])
		},
	)
}
