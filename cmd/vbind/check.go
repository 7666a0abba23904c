package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/errors"
)

func checkCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile the template and report bindings that fail",
		Long: `Compile the template against the data without rendering it.

Every binding that cannot be compiled is printed with its node path.
The command exits non-zero when any binding fails.

Examples:
  vbind check
  vbind check --template page.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runCheck(ctx, cmd, flags)
		},
	}
	return cmd
}

func runCheck(ctx context.Context, cmd *cobra.Command, flags *globalFlags) error {
	p, err := loadProject(ctx, flags)
	if err != nil {
		return err
	}
	_, v, err := p.bind(ctx, nil)
	if err != nil {
		return err
	}

	report := v.Report()
	out := cmd.OutOrStdout()
	for _, d := range report.Diagnostics {
		fmt.Fprint(out, errors.Classify(d).WithLocation(p.cfg.TemplatePath(), 0, 0).Format())
	}
	if n := len(report.Diagnostics); n > 0 {
		return errors.Newf(errors.CategoryTemplate, "%d of %d bindings failed", n, n+report.Bindings)
	}
	success(out, "%d bindings OK", report.Bindings)
	return nil
}
