package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyike/mentorchat/config"
	"github.com/dyike/mentorchat/internal/client"
	"github.com/dyike/mentorchat/internal/debug"
	"github.com/dyike/mentorchat/internal/session"
	"github.com/dyike/mentorchat/internal/web"
	"github.com/dyike/mentorchat/models"
	"github.com/dyike/mentorchat/pkg/utils"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "v0.1.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	// Initialize configuration early
	cfg := config.DefaultConfig()

	var debugFlag bool
	serveCmd := newServeCmd(cfg)

	rootCmd := &cobra.Command{
		Use:   "mentor",
		Short: "AI Data Science Mentor",
		Long: `mentor is a chat assistant that only answers Data Science questions.
Every conversation is stored in a local SQLite log and replayed to the model on each turn.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debugFlag {
				cfg.Debug = true
			}
			// Ensure directories exist
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: serve the web chat
			return serveCmd.RunE(serveCmd, args)
		},
	}

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newChatCmd(cfg))
	rootCmd.AddCommand(newAskCmd(cfg))
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newSessionsCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug mode")

	return rootCmd
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web chat (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.ListenAddr = addr
			}
			return runServe(cfg)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides LISTEN_ADDR)")
	return cmd
}

func runServe(cfg *config.Config) error {
	ctx, stop := signalContext()
	defer stop()

	if err := debug.NewEinoDebugger(cfg).Initialize(ctx); err != nil {
		return err
	}

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	srv, err := web.NewServer(rt.service, session.NewRegistry(), web.Options{
		Addr:  cfg.ListenAddr,
		Debug: cfg.Debug,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func newChatCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the mentor in the terminal",
		Long: `Start an interactive chat. Type /new to start a new conversation and /exit to quit.
Use --session to continue a stored conversation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, _ := cmd.Flags().GetString("session")

			ctx, stop := signalContext()
			defer stop()

			rt, err := newRuntime(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			mgr := session.NewManager()
			if sessionID != "" {
				mgr.Resume(sessionID)
			}
			return NewInteractiveSession(rt.service, mgr, cmd.OutOrStdout()).Start(ctx)
		},
	}
	cmd.Flags().String("session", "", "Continue an existing session id")
	return cmd
}

func newAskCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask a single question",
		Long: `Ask one question and print the reply.
Without --server the local store and model are used; with --server the question goes
through the JSON API of a running mentor server.
Example: mentor ask "what is a p-value?" --session 3f0c...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			sessionID, _ := cmd.Flags().GetString("session")
			serverURL, _ := cmd.Flags().GetString("server")
			clientID, _ := cmd.Flags().GetString("client")

			ctx, stop := signalContext()
			defer stop()

			if serverURL != "" {
				return runRemoteAsk(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, serverURL, clientID, question)
			}
			return runLocalAsk(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, sessionID, question)
		},
	}
	cmd.Flags().String("session", "", "Session id to continue (local mode)")
	cmd.Flags().String("server", "", "Base URL of a running mentor server")
	cmd.Flags().String("client", "", "Client id to continue (server mode)")
	return cmd
}

func runLocalAsk(ctx context.Context, out, errOut io.Writer, cfg *config.Config, sessionID, question string) error {
	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	mgr := session.NewManager()
	if sessionID != "" {
		mgr.Resume(sessionID)
	}

	reply, err := rt.service.Submit(ctx, mgr, question)
	fmt.Fprintf(errOut, "session: %s\n", mgr.Current())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, reply)
	return nil
}

func runRemoteAsk(ctx context.Context, out, errOut io.Writer, cfg *config.Config, serverURL, clientID, question string) error {
	c := client.New(serverURL, cfg.RequestTimeout+10*time.Second)
	c.SetClientID(clientID)

	res, err := c.Ask(ctx, question)
	if id := c.ClientID(); id != "" {
		fmt.Fprintf(errOut, "client: %s\n", id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(errOut, "session: %s\n", res.SessionID)
	fmt.Fprintln(out, res.Reply)
	return nil
}

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history SESSION_ID",
		Short: "Print a stored conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			turns, err := store.Load(ctx, args[0])
			if err != nil {
				return err
			}
			result := models.HistoryResult{SessionID: args[0], Messages: turns}

			outDir, _ := cmd.Flags().GetString("out")
			if outDir == "" {
				return WriteHistory(cmd.OutOrStdout(), format, result)
			}
			ext, ok := extensions[format]
			if !ok {
				return fmt.Errorf("unknown format %q", format)
			}
			var buf bytes.Buffer
			if err := WriteHistory(&buf, format, result); err != nil {
				return err
			}
			path, err := utils.WriteExport(outDir, args[0]+"."+ext, buf.Bytes())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", FormatText, "Output format: text, json, yaml or markdown")
	cmd.Flags().String("out", "", "Write the export into this directory instead of stdout")
	return cmd
}

func newSessionsCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.ListSessions(ctx, limit)
			if err != nil {
				return err
			}
			DisplaySessions(cmd.OutOrStdout(), sessions)
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum number of sessions to list")
	return cmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mentor %s\n", Version)
			fmt.Fprintln(cmd.OutOrStdout(), "AI Data Science Mentor")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	// config show subcommand
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cmd.OutOrStdout(), cfg)
		},
	})

	// config validate subcommand
	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd.OutOrStdout(), cfg)
		},
	})

	return configCmd
}

// showConfig displays the current configuration
func showConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "📋 Current Configuration:")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintf(w, "Data Directory:       %s\n", cfg.DataDir)
	fmt.Fprintf(w, "Database:             %s\n", cfg.DBPath)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "LLM Provider:         %s\n", cfg.LLMProvider)
	fmt.Fprintf(w, "Model:                %s\n", cfg.LLMModel)
	fmt.Fprintf(w, "Backend URL:          %s\n", cfg.BackendURL)
	fmt.Fprintf(w, "Max Tokens:           %d\n", cfg.MaxTokens)
	fmt.Fprintf(w, "Request Timeout:      %s\n", cfg.RequestTimeout)
	if cfg.HistoryWindow > 0 {
		fmt.Fprintf(w, "History Window:       last %d turns\n", cfg.HistoryWindow)
	} else {
		fmt.Fprintln(w, "History Window:       full session")
	}
	if cfg.SystemPromptFile != "" {
		fmt.Fprintf(w, "System Prompt:        %s\n", cfg.SystemPromptFile)
	} else {
		fmt.Fprintln(w, "System Prompt:        built-in")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Listen Address:       %s\n", cfg.ListenAddr)
	fmt.Fprintf(w, "Debug Mode:           %t\n", cfg.Debug)
	fmt.Fprintf(w, "Eino Debug:           %t\n", cfg.EinoDebugEnabled)
	if cfg.EinoDebugEnabled {
		fmt.Fprintf(w, "Eino Debug Port:      %d\n", cfg.EinoDebugPort)
	}
	fmt.Fprintln(w)

	if cfg.APIKey() != "" {
		fmt.Fprintln(w, "API Key:              ✅ Configured")
	} else {
		fmt.Fprintln(w, "API Key:              ❌ Not configured")
	}
}

// validateConfig validates the configuration
func validateConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, "🔍 Validating Configuration...")
	fmt.Fprintln(w, "═══════════════════════════════════════")

	fmt.Fprint(w, "📁 Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintln(w, "❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Fprintln(w, "✅")

	fmt.Fprint(w, "⚙️  Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(w, "❌")
		return err
	}
	fmt.Fprintln(w, "✅")

	fmt.Fprint(w, "🔑 Checking API key... ")
	if cfg.APIKey() == "" {
		fmt.Fprintln(w, "❌")
		return errors.New("no API key: set LLM_API_KEY or the provider specific key")
	}
	fmt.Fprintln(w, "✅")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "✅ Configuration validation completed successfully!")
	return nil
}
