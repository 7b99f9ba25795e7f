package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/responsys-client/internal/constants"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/spf13/cobra"
)

// NewListsCommand creates the lists command group.
func NewListsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"list"},
		Short:   "Inspect profile lists",
		Long:    "List profile lists and their profile extensions",
	}

	cmd.AddCommand(newListsListCommand())
	cmd.AddCommand(newListsExtensionsCommand())

	return cmd
}

func newListsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profile lists",
		Long:  "List all profile lists in the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client responsys.Client) error {
				lists, err := client.Lists().List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list profile lists: %w", err)
				}

				w := cmd.OutOrStdout()

				return render(w, lists, func() error {
					if len(lists) == 0 {
						_, _ = fmt.Fprintln(w, "No profile lists found")

						return nil
					}

					rows := make([][]string, 0, len(lists))
					for _, list := range lists {
						rows = append(rows, []string{list.Name, list.FolderName, formatConfigValue(list.Description)})
					}

					return renderTable(w, []string{"Name", "Folder", "Description"}, rows)
				})
			})
		},
	}
}

func newListsExtensionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extensions LIST",
		Short: "List profile extensions of a list",
		Long:  "List the profile extension tables attached to a profile list, with their fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client responsys.Client) error {
				extensions, err := client.Lists().ListExtensions(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to list extensions of %s: %w", args[0], err)
				}

				w := cmd.OutOrStdout()

				return render(w, extensions, func() error {
					if len(extensions) == 0 {
						_, _ = fmt.Fprintf(w, "No profile extensions found for %s\n", args[0])

						return nil
					}

					rows := make([][]string, 0, len(extensions))
					for _, extension := range extensions {
						rows = append(rows, []string{
							extension.ProfileExtension.ObjectName,
							extension.ProfileExtension.FolderName,
							formatFieldList(extension.Fields),
						})
					}

					return renderTable(w, []string{"Name", "Folder", "Fields"}, rows)
				})
			})
		},
	}
}

func formatFieldList(fields []responsys.Field) string {
	if len(fields) == 0 {
		return constants.NotAvailable
	}

	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.FieldName+" ("+field.FieldType+")")
	}

	return strings.Join(names, ", ")
}
