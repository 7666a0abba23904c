package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/live"
	"github.com/vango-dev/vbind/internal/metrics"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/vm"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port        int
		host        string
		withMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live playground",
		Long: `Serve the bound template with a live connection.

Each page load gets its own bound view. Typing into v-model inputs and
clicking v-on elements runs on the server, and the changes are streamed
back to the page.

Examples:
  vbind serve
  vbind serve --port=8080 --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, port, host, withMetrics)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from vbind.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from vbind.json)")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "Expose Prometheus metrics on /metrics")

	return cmd
}

func runServe(cmd *cobra.Command, flags *globalFlags, port int, host string, withMetrics bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := loadProject(ctx, flags)
	if err != nil {
		return err
	}
	if port > 0 {
		p.cfg.Server.Port = port
	}
	if host != "" {
		p.cfg.Server.Host = host
	}
	if withMetrics {
		p.cfg.Server.Metrics = true
	}

	// Bind once up front so template problems surface before listening.
	_, v, err := p.bind(ctx, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var opts []live.Option
	var observer vm.Observer
	if p.cfg.Server.Metrics {
		reg := prometheus.NewRegistry()
		m := metrics.New(metrics.WithRegistry(reg))
		observer = m
		opts = append(opts, live.WithMetrics(m, reg))
	}
	opts = append(opts,
		live.WithStripPrefix(p.cfg.Prefix),
		live.WithTitle(p.cfg.Template),
	)

	server := live.New(func(ctx context.Context) (*dom.Document, *vm.VM, error) {
		return p.bind(ctx, observer)
	}, opts...)

	printBanner(out)
	fmt.Fprintln(out, "  serve")
	fmt.Fprintln(out)
	success(out, "Bound %d directives", v.Report().Bindings)
	if n := len(v.Report().Diagnostics); n > 0 {
		warn(out, "%d bindings skipped, run 'vbind check' for details", n)
	}
	info(out, "Listening on %s", p.cfg.ServerURL())
	if p.cfg.Server.Metrics {
		info(out, "Metrics on %s/metrics", p.cfg.ServerURL())
	}

	if err := server.ListenAndServe(ctx, p.cfg.ServerAddress()); err != nil {
		return err
	}
	fmt.Fprintln(out, "\n  Shutting down...")
	return nil
}
