// Command shellwalk is a small demo host embedding the executor
// against a real os/exec-backed shell facade: enough to run `-c` one-
// liners through the full parameter/command/pipeline machinery against
// the host OS.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shellwalk/shellcore/ast"
	"github.com/shellwalk/shellcore/builtin"
	"github.com/shellwalk/shellcore/cmd/shellwalk/shline"
	"github.com/shellwalk/shellcore/errtrace"
	"github.com/shellwalk/shellcore/exec"
	"github.com/shellwalk/shellcore/oshost"
	"github.com/shellwalk/shellcore/shellcontext"
	"github.com/spf13/cobra"
)

func main() {
	var (
		command   string
		debug     bool
		telemetry bool
		noColor   bool
	)

	rootCmd := &cobra.Command{
		Use:           "shellwalk [script-file]",
		Short:         "Run a shell script or one-liner against the shellwalk executor core",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			useColor := ShouldUseColor(noColor)

			source, err := sourceText(command, args)
			if err != nil {
				return &CLIError{Type: "usage", Message: err.Error()}
			}

			code, err := run(source, debug, telemetry)
			if err != nil {
				cmd.SilenceUsage = true
				FormatError(os.Stderr, err, useColor)
				os.Exit(1)
			}
			os.Exit(code)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&command, "command", "c", "", "run this string as a command instead of a script file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print the execution trace to stderr")
	rootCmd.PersistentFlags().BoolVar(&telemetry, "telemetry", false, "print node-count/duration telemetry to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored error output")

	if err := rootCmd.Execute(); err != nil {
		FormatError(os.Stderr, err, ShouldUseColor(noColor))
		os.Exit(1)
	}
}

func sourceText(command string, args []string) (string, error) {
	if command != "" {
		return command, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("either -c <command> or a script file path is required")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return stripShebang(string(data)), nil
}

func stripShebang(source string) string {
	if !strings.HasPrefix(source, "#!") {
		return source
	}
	if i := strings.IndexByte(source, '\n'); i >= 0 {
		return source[i+1:]
	}
	return ""
}

// newCancellableContext cancels the executor's context on SIGINT/
// SIGTERM so a long-running external command can be interrupted.
func newCancellableContext() (context.Context, context.CancelFunc) {
	goCtx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-goCtx.Done():
		}
		signal.Stop(sigCh)
	}()
	return goCtx, cancel
}

func run(source string, debug, telemetry bool) (int, error) {
	goCtx, cancel := newCancellableContext()
	defer cancel()

	cwd, err := os.Getwd()
	if err != nil {
		return 1, err
	}
	sc := shellcontext.NewRoot(cwd)
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok {
			_ = sc.Export(name, value, true)
		}
	}

	cfg := exec.Config{}
	if debug {
		cfg.Trace = exec.TraceDetailed
	}
	if telemetry {
		cfg.Telemetry = exec.TelemetryOn
	}

	engine := exec.NewEngine(oshost.New(), builtin.All(), cfg)
	engine.Parse = shline.Parse

	script, err := shline.Parse(source)
	if err != nil {
		offset := 0
		if pe, ok := err.(shline.PositionedError); ok {
			offset = pe.Offset()
		}
		pos := ast.Position{Offset: offset}
		return 2, errtrace.NewSyntaxError(source, pos, err.Error())
	}

	code, err := engine.Execute(goCtx, sc, script)

	if debug {
		for _, ev := range engine.Trace() {
			fmt.Fprintf(os.Stderr, "trace: %s %s\n", ev.Node, ev.Note)
		}
	}
	if telemetry {
		t := engine.Telemetry()
		fmt.Fprintf(os.Stderr, "telemetry: nodes=%d duration=%s failed=%q\n", t.NodesRun, t.Duration, t.FailedNode)
	}

	return code, err
}
