package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	api "github.com/deepagents/control/api/go/client"
	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/frontend/cli/pkg/fail"
	"github.com/deepagents/control/frontend/cli/pkg/terminal"
	"github.com/deepagents/control/shared"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type loginOptions struct {
	Server        string
	ContextName   string
	Username      string
	PasswordStdin bool
	Register      bool
	Email         string
	FullName      string
}

func NewLoginCmd() *cobra.Command {
	options := loginOptions{}
	cmd := &cobra.Command{
		Use:     "login [flags]",
		Short:   "Log in to a DeepAgents server",
		GroupID: "resource",
		Long: `Log in to a DeepAgents server and make it the current context.

The server address is stored in the CLI config directory, the access token in
the OS keyring.`,
		Example: `  # Log in to a local server, the password is prompted for
  deepagents login --username ada

  # Create an account first
  deepagents login --server https://agents.example.com --register --email ada@example.com --username ada

  # Non interactive
  echo "$PASSWORD" | deepagents login --username ada --password-stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Register && options.Email == "" {
				return fail.HandleError(cmd, errors.New("--email is required with --register"))
			}

			password, err := readPassword(cmd, options.PasswordStdin)
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			endpointContext := api.EndpointContext{Address: options.Server, Kind: "http"}
			if err := endpointContext.Validate(); err != nil {
				return fail.HandleError(cmd, err)
			}

			factory := getClientFactory(cmd.Context())
			client := factory(endpointContext, "")

			if options.Register {
				_, err := client.Auth().Register(cmd.Context(), &v1.RegisterRequest{
					Email:    options.Email,
					Username: options.Username,
					Password: password,
					FullName: options.FullName,
				})
				if err != nil {
					return fail.HandleError(cmd, err)
				}
			}

			token, err := client.Auth().Login(cmd.Context(), &v1.LoginRequest{
				Username: options.Username,
				Password: password,
			})
			if err != nil {
				return fail.HandleError(cmd, err)
			}

			user, err := factory(endpointContext, token.AccessToken).Auth().Me(cmd.Context())
			if err != nil {
				return fail.HandleError(cmd, err)
			}
			endpointContext.Username = user.Username

			contextManager := shared.NewContextManager(getFileSystem(cmd.Context()), getUserInfo(cmd.Context()))
			if _, err := contextManager.UpsertContext(options.ContextName, endpointContext, true); err != nil {
				return fail.HandleError(cmd, err)
			}
			if err := getTokenStore(cmd.Context()).Set(options.ContextName, token.AccessToken); err != nil {
				return fail.HandleError(cmd, fmt.Errorf("storing token: %w", err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s logged in to %s as %s (context %s)\n",
				terminal.Success("✓"), options.Server, user.Username, options.ContextName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.Server, "server", "s", "http://127.0.0.1:8000", "address of the server")
	cmd.Flags().StringVar(&options.ContextName, "name", "default", "name of the endpoint context to create or update")
	cmd.Flags().StringVarP(&options.Username, "username", "u", "", "username or email address")
	cmd.Flags().BoolVar(&options.PasswordStdin, "password-stdin", false, "read the password from stdin")
	cmd.Flags().BoolVar(&options.Register, "register", false, "create the account before logging in")
	cmd.Flags().StringVar(&options.Email, "email", "", "email address of the new account")
	cmd.Flags().StringVar(&options.FullName, "full-name", "", "full name of the new account")
	cmd.MarkFlagRequired("username")

	return cmd
}

func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		return readLine(cmd.InOrStdin())
	}

	if cmd.InOrStdin() == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(password), nil
	}

	return "", errors.New("no terminal to prompt for the password, use --password-stdin")
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password must not be empty")
	}
	return line, nil
}
