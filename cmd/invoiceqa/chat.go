package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/invoiceqa/internal/agent"
	"github.com/fyrsmithlabs/invoiceqa/internal/config"
	"github.com/fyrsmithlabs/invoiceqa/internal/llm"
	"github.com/fyrsmithlabs/invoiceqa/internal/search"
	"github.com/fyrsmithlabs/invoiceqa/internal/session"
	"github.com/fyrsmithlabs/invoiceqa/internal/synthesis"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question-answering session",
	Long: `Start an interactive shell. Type a question to get an answer, or one of
the shell commands:

  :init               initialize the agent with the current configuration
  :config [key=value] show or change the agent configuration
  :history            show the conversation so far
  :log                show the recent execution log
  :clear              clear the conversation history
  :quit               exit`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	out := cmd.OutOrStdout()

	keys := config.RequiredKeys(cfg)
	presence := config.Presence(keys, config.EnvLookup)
	if !config.AllPresent(presence) {
		for _, key := range keys {
			if !presence[key] {
				fmt.Fprintf(out, "warning: %s is not set\n", key)
			}
		}
	}

	backend, err := search.NewBackend(cfg, nil, logger.Underlying())
	if err != nil {
		return fmt.Errorf("creating search backend: %w", err)
	}
	retriever := search.NewRetriever(backend, search.RetrieverConfig{
		TopK:    cfg.Search.TopK,
		Timeout: cfg.Search.Timeout,
	}, logger.Underlying())

	model, err := llm.New(cfg.LLM)
	if err != nil {
		return err
	}

	sess := session.New(session.Config{
		Mode:    session.Mode(cfg.Agent.Mode),
		Memory:  cfg.Agent.Memory,
		Logging: cfg.Agent.Logging,
	}, session.Deps{
		Retriever: retriever,
		LLM:       model,
		Synthesis: synthesis.Config{
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		},
		Engine: agent.LangChainConfig{
			MaxIterations: cfg.Agent.MaxIterations,
		},
	}, logger.Underlying())

	fmt.Fprintln(out, "invoiceqa shell. Type :init to initialize the agent, :quit to exit.")
	return runShell(cmd.Context(), sess, cmd.InOrStdin(), out)
}

// runShell drives the session from a line-oriented reader until EOF or
// :quit. Split out from runChat so tests can feed it scripted input.
func runShell(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := runShellCommand(ctx, sess, line, out); quit {
				return nil
			}
			continue
		}

		answer, err := sess.Query(ctx, line)
		if err != nil && !errors.Is(err, session.ErrNotInitialized) {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, answer)
	}
}

// runShellCommand handles one ":" command; returns true on :quit.
func runShellCommand(ctx context.Context, sess *session.Session, line string, out io.Writer) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":exit":
		return true

	case ":init":
		if err := sess.Initialize(ctx); err != nil {
			fmt.Fprintf(out, "initialization failed: %v\n", err)
			return false
		}
		fmt.Fprintln(out, "agent initialized")

	case ":config":
		if len(fields) == 1 {
			cfg := sess.Config()
			fmt.Fprintf(out, "mode=%s memory=%t logging=%t state=%s\n",
				cfg.Mode, cfg.Memory, cfg.Logging, sess.State())
			return false
		}
		cfg := sess.Config()
		for _, arg := range fields[1:] {
			if err := applyConfigArg(&cfg, arg); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return false
			}
		}
		sess.SetConfig(cfg)
		if sess.State() == session.StateUninitialized {
			fmt.Fprintln(out, "configuration updated; run :init to apply")
		} else {
			fmt.Fprintln(out, "configuration unchanged; agent still active")
		}

	case ":history":
		history := sess.History()
		if len(history) == 0 {
			fmt.Fprintln(out, "(no conversation yet)")
			return false
		}
		for _, turn := range history {
			fmt.Fprintf(out, "[%s] %s: %s\n", turn.Timestamp, turn.Role, turn.Content)
		}

	case ":log":
		entries := sess.RecentLog()
		if len(entries) == 0 {
			fmt.Fprintln(out, "(no executions logged)")
			return false
		}
		for _, entry := range entries {
			status := "ok"
			if entry.Err {
				status = "error"
			}
			fmt.Fprintf(out, "[%s] mode=%s sources=%d %s\n",
				entry.Timestamp, entry.Mode, entry.Sources, status)
		}

	case ":clear":
		if err := sess.ClearHistory(ctx); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		fmt.Fprintln(out, "conversation cleared")

	default:
		fmt.Fprintf(out, "unknown command %s\n", fields[0])
	}
	return false
}

// applyConfigArg applies one key=value pair to cfg.
func applyConfigArg(cfg *session.Config, arg string) error {
	key, value, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("expected key=value, got %q", arg)
	}
	switch key {
	case "mode":
		switch value {
		case string(session.ModeFullAgent), string(session.ModeSimpleRetrieval):
			cfg.Mode = session.Mode(value)
		default:
			return fmt.Errorf("mode must be %q or %q", session.ModeFullAgent, session.ModeSimpleRetrieval)
		}
	case "memory":
		return parseBoolInto(value, &cfg.Memory)
	case "logging":
		return parseBoolInto(value, &cfg.Logging)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func parseBoolInto(value string, dst *bool) error {
	switch value {
	case "true", "on":
		*dst = true
	case "false", "off":
		*dst = false
	default:
		return fmt.Errorf("expected true or false, got %q", value)
	}
	return nil
}
