package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	api "github.com/deepagents/control/api/go/client"
	"github.com/deepagents/control/backend/secret"
	"github.com/deepagents/control/shared"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	Verbose bool
	Context string
}

func NewRootCmd() *cobra.Command {
	options := globalOptions{}
	cmd := &cobra.Command{
		Use:   "deepagents",
		Short: "DeepAgents: run and manage delegating agents.",
		Long:  figure.NewColorFigure("deepagents", "standard", "blue", true).String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if options.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			cmd.SetContext(setGlobalOptions(cmd.Context(), &options))
			if requiresContext(cmd) {
				if err := setAPIClient(cmd.Context(), cmd); err != nil {
					slog.Debug("failed to set API client", "error", err)
					return err
				}
			}

			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&options.Context, "context", "", "endpoint context to use instead of the current one")

	cmd.AddGroup(
		&cobra.Group{
			ID:    "server",
			Title: "Server Commands",
		},
		&cobra.Group{
			ID:    "resource",
			Title: "Resource Management",
		},
		&cobra.Group{
			ID:    "system",
			Title: "System Commands",
		},
	)

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewAgentCmd())
	cmd.AddCommand(NewSubagentCmd())

	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}

func Execute() {
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			sentry.Flush(2 * time.Second)
			fmt.Fprintf(os.Stderr, "Panic occurred: %v\n", r)
			os.Exit(1)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if dsn := os.Getenv("DEEPAGENTS_CLI_SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Release: Version}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize sentry: %s\n", err)
		}
	}

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}

	sentry.Flush(2 * time.Second)
}

// setAPIClient builds the client for the selected endpoint context and
// attaches the token stored for it.
func setAPIClient(ctx context.Context, cmd *cobra.Command) error {
	if getAPIClient(ctx) != nil {
		return nil
	}

	endpointContexts, err := shared.NewContextManager(getFileSystem(ctx), getUserInfo(ctx)).LoadContext()
	if err != nil {
		return err
	}

	if err := endpointContexts.Validate(); err != nil {
		return err
	}

	contextName := endpointContexts.CurrentContext
	if override := getGlobalOptions(ctx).Context; override != "" {
		contextName = override
	}

	endpointContext, ok := endpointContexts.Contexts[contextName]
	if !ok {
		if contextName == "" {
			return errors.New("no current context found. please run `deepagents login` first")
		}
		return fmt.Errorf("context %s not found", contextName)
	}

	token, err := getTokenStore(ctx).Get(contextName)
	if err != nil && !errors.Is(err, secret.ErrSecretNotFound) {
		return fmt.Errorf("reading token of context %s: %w", contextName, err)
	}

	apiClient := getClientFactory(ctx)(endpointContext, token)
	cmd.SetContext(context.WithValue(ctx, ContextKeyAPIClient, apiClient))

	return nil
}

func requiresContext(cmd *cobra.Command) bool {
	skipCommands := []string{"version", "help", "completion", "serve", "migrate", "login", "config."}
	for _, skipCmd := range skipCommands {
		cmdName := cmd.Name()
		parentCmd := cmd.Parent()
		if parentCmd != nil && parentCmd.Parent() != nil {
			cmdName = parentCmd.Name() + "." + cmdName
		}

		if strings.HasPrefix(cmdName, skipCmd) {
			return false
		}
	}

	return true
}

func confirmDeletion(stdin io.Reader, stdout io.Writer, kind string, idOrNames []string) bool {
	if len(idOrNames) == 0 {
		return false
	}

	if len(idOrNames) > 1 {
		kind = kind + "s"
	}

	message := fmt.Sprintf("Are you sure you want to delete %s %s?", kind, strings.Join(idOrNames, " "))
	return confirm(stdin, stdout, message)
}

func confirm(stdin io.Reader, stdout io.Writer, message string) bool {
	fmt.Fprintf(stdout, "%s (y/n): ", message)
	var confirm string
	_, err := fmt.Fscan(stdin, &confirm)
	if err != nil {
		return false
	}

	confirm = strings.TrimSpace(strings.ToLower(confirm))
	return confirm == "y" || confirm == "yes"
}

func newDefaultClient(endpointContext api.EndpointContext, token string) *api.Client {
	var opts []api.Option
	if token != "" {
		opts = append(opts, api.WithToken(token))
	}
	return api.NewClient(endpointContext, opts...)
}
