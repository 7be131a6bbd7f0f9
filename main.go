package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harrisonrobin/todochat/pkg/auth"
	"github.com/harrisonrobin/todochat/pkg/chat"
	"github.com/harrisonrobin/todochat/pkg/command"
	"github.com/harrisonrobin/todochat/pkg/config"
	"github.com/harrisonrobin/todochat/pkg/mcpserver"
	"github.com/harrisonrobin/todochat/pkg/todoist"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var version = "dev"

type app struct {
	configPath string
	debug      bool
	logger     *log.Logger
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "todochat",
		Short:         "Run /todoist chat commands against Todoist",
		Long:          `todochat turns "/todoist ..." chat commands into Todoist API calls and answers them as chat messages.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "todochat"})
			if a.debug {
				a.logger.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "settings file (default ~/.config/todochat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		a.newRunCmd(),
		a.newStatusCmd(),
		a.newChatCmd(),
		a.newServeCmd(),
		a.newTokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dispatcher wires settings, the Todoist client and the dispatcher.
func (a *app) dispatcher(ctx context.Context) (*command.Dispatcher, error) {
	store, err := config.Open(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}
	client, err := todoist.NewClient(ctx, store, todoist.WithLogger(a.logger.WithPrefix("todoist")))
	if err != nil {
		return nil, err
	}
	return command.NewDispatcher(client, a.logger.WithPrefix("command")), nil
}

func (a *app) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [command...]",
		Short: "Run one /todoist command and print the reply",
		Example: `  todochat run add Buy milk tomorrow in Groceries
  todochat run tasks today project:Work`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := a.dispatcher(ctx)
			if err != nil {
				return err
			}
			line := strings.TrimSpace(command.Prefix + " " + strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), d.Process(ctx, line))
			return nil
		},
	}
}

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the Todoist connection and API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := a.dispatcher(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.Process(ctx, command.Prefix+" status"))
			return nil
		},
	}
}

func (a *app) newChatCmd() *cobra.Command {
	var threadID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Read chat messages from stdin and answer /todoist commands",
		Long: `chat simulates a chat host: every line read from stdin is a user message.
Lines starting with /todoist are answered by todochat, other lines are
reported as forwarded to the model.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := a.dispatcher(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			host := chat.NewMemoryHost()
			host.AddAssistant(chat.Assistant{ID: "todoist", Name: "Todoist", Model: "todochat"})
			host.AddThread(chat.Thread{ID: threadID, AssistantID: "todoist"})
			host.OnReceived(func(msg chat.Message) {
				fmt.Fprintf(out, "%s> %s\n", msg.Role, msg.Content.Text())
			})

			chat.NewInterceptor(d, host, a.logger.WithPrefix("chat")).Register(host)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := scanner.Text()
				if strings.TrimSpace(line) == "" {
					continue
				}
				if host.Send(ctx, threadID, chat.Text(line)) {
					fmt.Fprintf(out, "(forwarded to model) %s\n", line)
				}
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&threadID, "thread", "local", "thread id used for the session")
	return cmd
}

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the todoist tool over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info("serving MCP on stdio", "version", version)
			return server.ServeStdio(mcpserver.New(d, version))
		},
	}
}

func (a *app) newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the Todoist API token",
	}

	setCmd := &cobra.Command{
		Use:   "set <token>",
		Short: "Save the Todoist API token",
		Long:  "Save the API token found in Todoist Settings > Integrations > Developer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Open(a.configPath)
			if err != nil {
				return fmt.Errorf("error loading settings: %w", err)
			}
			if err := store.Set(config.KeyAPIToken, strings.TrimSpace(args[0])); err != nil {
				return fmt.Errorf("error saving token: %w", err)
			}
			a.logger.Info("todoist API token saved", "path", store.Path)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the configured token, masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Open(a.configPath)
			if err != nil {
				return fmt.Errorf("error loading settings: %w", err)
			}
			token, err := store.Get(config.KeyAPIToken)
			if err != nil {
				return err
			}
			if token == "" {
				return auth.ErrTokenNotFound
			}
			fmt.Fprintln(cmd.OutOrStdout(), auth.MaskToken(token))
			return nil
		},
	}

	tokenCmd.AddCommand(setCmd, showCmd)
	return tokenCmd
}
