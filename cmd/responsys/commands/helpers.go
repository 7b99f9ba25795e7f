package commands

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// clientFactory creates the client used by resource commands. Tests
// replace it with one pointing at an httptest server.
var clientFactory = CreateClient

func newLogger(cmd *cobra.Command) *CLILogger {
	return NewCLILogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))
}

// withClient creates a client, runs fn with it and releases the client.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client responsys.Client) error) error {
	client, closeClient, err := clientFactory(newLogger(cmd))
	if err != nil {
		return err
	}
	defer closeClient()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return fn(ctx, client)
}

// confirmDelete asks before deleting unless force is set.
func confirmDelete(cmd *cobra.Command, force bool, entity string) bool {
	if force {
		return true
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Really delete %s? (y/N): ", entity)

	response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	response = strings.TrimSpace(response)

	if response != "y" && response != "Y" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")

		return false
	}

	return true
}

// createDeleteCommand builds a delete command that confirms before calling
// deleteFunc with the positional arguments.
func createDeleteCommand(use, short, long, entityType string, args int,
	deleteFunc func(ctx context.Context, client responsys.Client, args []string) error,
) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(args),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity := fmt.Sprintf("%s '%s'", entityType, strings.Join(args, "/"))
			if !confirmDelete(cmd, force, entity) {
				return nil
			}

			return withClient(cmd, func(ctx context.Context, client responsys.Client) error {
				err := deleteFunc(ctx, client, args)
				if err != nil {
					return fmt.Errorf("failed to delete %s: %w", entityType, err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully deleted %s\n", entity)

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

// createMergeCommand builds a merge command reading records from --file.
func createMergeCommand(use, short, long string, args int, withMatchColumn bool,
	mergeFunc func(ctx context.Context, client responsys.Client, args []string, records []responsys.Record, matchColumn string) (*responsys.MergeResult, error),
) *cobra.Command {
	var (
		file        string
		matchColumn string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(args),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecordsFile(file)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client responsys.Client) error {
				result, err := mergeFunc(ctx, client, args, records, matchColumn)
				if err != nil {
					return fmt.Errorf("failed to merge records: %w", err)
				}

				return renderMergeResult(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON or YAML file holding an array of records (required)")

	if withMatchColumn {
		cmd.Flags().StringVar(&matchColumn, "match-column", "", "column used to match existing records")
	}

	return cmd
}

// createGetCommand builds a lookup command rendering one record.
func createGetCommand(use, short, long string, args int,
	getFunc func(ctx context.Context, client responsys.Client, args []string) (responsys.Record, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(args),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client responsys.Client) error {
				record, err := getFunc(ctx, client, args)
				if err != nil {
					return err
				}

				return renderRecord(cmd.OutOrStdout(), record)
			})
		},
	}
}
