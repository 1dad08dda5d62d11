package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sevigo/text-warden/internal/chunk"
	"github.com/sevigo/text-warden/internal/core"
	"github.com/sevigo/text-warden/internal/wire"
)

var (
	visibleStart int
	visibleEnd   int
	outputFormat string
	assumeYes    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Counts and lints a document",
	Long: `Reads a document from a file, or from standard input when the argument is
"-" or missing, and prints its statistics and lint issues. The visible range
is linted first; the rest of the document is split into leading and trailing
chunks when they are large enough.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "-"
		if len(args) == 1 {
			name = args[0]
		}
		format, err := parseFormat(outputFormat)
		if err != nil {
			return err
		}

		text, err := readInput(cmd.InOrStdin(), name)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		orch, cleanup, err := wire.InitializeOrchestrator(wire.ConfigPath(configPath()), newConfirmer(cmd, name))
		if err != nil {
			return fmt.Errorf("failed to initialize analysis services: %w", err)
		}
		defer cleanup()

		orch.Start(ctx)
		defer orch.Stop()

		visible := visibleRange(len(text))
		sub := orch.OnTextChanged(ctx, text, visible)
		counts, ok := orch.State().Counts()
		if !ok {
			warnColor.Fprintln(cmd.ErrOrStderr(), "Analysis declined.")
			return nil
		}

		results, lintErr := sub.Wait(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		opts := orch.Options()
		layout := chunk.Split(text, visible, opts.MinChunkSize)
		rep := newReport(name, text, counts, layout, results, opts)
		if err := rep.render(cmd.OutOrStdout(), format); err != nil {
			return err
		}
		if lintErr != nil {
			return fmt.Errorf("some chunks could not be linted: %w", lintErr)
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	analyzeCmd.Flags().IntVar(&visibleStart, "visible-start", 0, "Byte offset where the visible range starts")
	analyzeCmd.Flags().IntVar(&visibleEnd, "visible-end", -1, "Byte offset where the visible range ends (-1 for end of text)")
	analyzeCmd.Flags().StringVarP(&outputFormat, "format", "f", string(formatTable), "Output format: table, json or yaml")
	analyzeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Analyze large documents without asking")
	rootCmd.AddCommand(analyzeCmd)
}

func readInput(stdin io.Reader, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

func visibleRange(docLen int) chunk.Range {
	end := visibleEnd
	if end < 0 {
		end = docLen
	}
	return chunk.Range{Start: visibleStart, End: end}
}

// newConfirmer prompts on the terminal unless --yes was given. Documents read
// from standard input cannot be confirmed interactively and are declined.
func newConfirmer(cmd *cobra.Command, name string) core.Confirmer {
	if assumeYes {
		return core.StaticConfirmer(true)
	}
	if name == "-" {
		return core.ConfirmFunc(func(_ context.Context, message string) bool {
			warnColor.Fprintf(cmd.ErrOrStderr(), "%s Re-run with --yes to analyze it.\n", message)
			return false
		})
	}
	return promptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
}

func promptConfirmer(in io.Reader, out io.Writer) core.Confirmer {
	return core.ConfirmFunc(func(ctx context.Context, message string) bool {
		if ctx.Err() != nil {
			return false
		}
		fmt.Fprintf(out, "%s [y/N] ", message)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	})
}
