package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"syscall"
	"time"

	"github.com/fivetwenty-io/responsys-client/pkg/rsclient"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginResult is what 'login' reports. The token itself is never shown.
type loginResult struct {
	LoginURL string    `json:"login_url" yaml:"login_url"`
	Username string    `json:"username"  yaml:"username"`
	EndPoint string    `json:"endpoint"  yaml:"endpoint"`
	IssuedAt time.Time `json:"issued_at" yaml:"issued_at"`
}

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify Responsys credentials",
		Long:  "Authenticate with Responsys and show the API endpoint issued for the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			reader := bufio.NewReader(cmd.InOrStdin())

			if config.LoginURL == "" {
				config.LoginURL = prompt(cmd.OutOrStdout(), reader, "Login URL: ")
			}

			if config.Username == "" {
				config.Username = prompt(cmd.OutOrStdout(), reader, "Username: ")
			}

			if config.Password == "" {
				password, err := readPassword(cmd.OutOrStdout(), reader)
				if err != nil {
					return err
				}

				config.Password = password
			}

			clientCfg, err := clientConfig(config, newLogger(cmd))
			if err != nil {
				return err
			}

			client, err := rsclient.New(clientCfg)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			err = client.Login(ctx)
			if err != nil {
				return fmt.Errorf("failed to log in: %w", err)
			}

			session, _ := client.Session()

			if save {
				err = saveLogin(config)
				if err != nil {
					return err
				}
			}

			return renderLogin(cmd.OutOrStdout(), loginResult{
				LoginURL: rsclient.NormalizeLoginURL(config.LoginURL),
				Username: config.Username,
				EndPoint: session.EndPoint,
				IssuedAt: session.IssuedAt,
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "save the login URL and username to the config file")

	return cmd
}

func prompt(w io.Writer, reader *bufio.Reader, label string) string {
	_, _ = fmt.Fprint(w, label)

	value, _ := reader.ReadString('\n')

	return strings.TrimSpace(value)
}

// readPassword reads without echo from a terminal, or a plain line otherwise.
func readPassword(w io.Writer, reader *bufio.Reader) (string, error) {
	_, _ = fmt.Fprint(w, "Password: ")

	if !term.IsTerminal(int(syscall.Stdin)) {
		value, _ := reader.ReadString('\n')

		return strings.TrimSpace(value), nil
	}

	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	_, _ = fmt.Fprintln(w)

	return string(bytePassword), nil
}

// saveLogin stores the login URL and username. The password is only
// written by an explicit 'config set password'.
func saveLogin(config *Config) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	stored, err := readConfigFile(path)
	if err != nil {
		return err
	}

	stored.LoginURL = config.LoginURL
	stored.Username = config.Username

	return writeConfigFile(path, stored)
}

func renderLogin(w io.Writer, result loginResult) error {
	return render(w, result, func() error {
		_, _ = fmt.Fprintf(w, "Logged in to %s as %s\n", result.LoginURL, result.Username)

		return renderTable(w, []string{"Property", "Value"}, [][]string{
			{"API endpoint", result.EndPoint},
			{"Issued at", result.IssuedAt.Format(time.RFC3339)},
		})
	})
}
