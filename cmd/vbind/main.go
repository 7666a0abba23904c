package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦┌┐ ┬┌┐┌┌┬┐
  ╚╗╔╝├┴┐││││ ││
   ╚╝ └─┘┴┘└┘─┴┘
`

// globalFlags are shared by every command that loads a project.
type globalFlags struct {
	config   string
	template string
	data     string
	selector string
	strict   bool
	verbose  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "vbind",
		Short: "Bind HTML templates to reactive data",
		Long: `vbind binds HTML templates to a data tree with v- directives.

  • {{ path }} interpolation and v-text, v-html, v-bind:<attr>
  • two-way v-model on form controls
  • v-on:<event> calling methods defined as expressions
  • a live playground that keeps the bound page interactive`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Path to vbind.json (default: nearest vbind.json)")
	pf.StringVarP(&flags.template, "template", "t", "", "Template file or s3:// URL")
	pf.StringVarP(&flags.data, "data", "d", "", "JSON data file or s3:// URL")
	pf.StringVar(&flags.selector, "selector", "", "Mount element selector")
	pf.BoolVar(&flags.strict, "strict", false, "Fail on the first binding that cannot be compiled")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		initCmd(),
		bindCmd(flags),
		checkCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
