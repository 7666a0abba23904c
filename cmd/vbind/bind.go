package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/render"
)

// scriptEvent is one entry of an event script.
type scriptEvent struct {
	Selector string `json:"selector"`
	Type     string `json:"type"`
	Value    string `json:"value,omitempty"`
}

func bindCmd(flags *globalFlags) *cobra.Command {
	var (
		events string
		pretty bool
		out    string
		noData bool
	)

	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Bind a template and print the result",
		Long: `Bind the template to the data, optionally replay an event script
against the bound view, then print the markup and the final data.

An event script is a JSON list of events:

  [
    {"selector": "input", "type": "input", "value": "hello"},
    {"selector": "button.add", "type": "click"}
  ]

Examples:
  vbind bind
  vbind bind --template page.html --data data.json --pretty
  vbind bind --events script.json --out s3://site/index.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runBind(ctx, cmd, flags, events, pretty, out, noData)
		},
	}

	cmd.Flags().StringVarP(&events, "events", "e", "", "Event script file or s3:// URL")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Pretty-print the markup")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the markup to a file or s3:// URL instead of stdout")
	cmd.Flags().BoolVar(&noData, "no-data", false, "Do not print the final data")

	return cmd
}

func runBind(ctx context.Context, cmd *cobra.Command, flags *globalFlags, events string, pretty bool, out string, noData bool) error {
	p, err := loadProject(ctx, flags)
	if err != nil {
		return err
	}
	doc, v, err := p.bind(ctx, nil)
	if err != nil {
		return err
	}
	for _, d := range v.Report().Diagnostics {
		warn(cmd.ErrOrStderr(), "%s", errors.Classify(d).FormatCompact())
	}

	if events != "" {
		raw, err := p.loader.Read(ctx, events)
		if err != nil {
			return err
		}
		script, err := parseScript(raw)
		if err != nil {
			return err
		}
		if err := replay(doc, script); err != nil {
			return err
		}
	}

	markup, err := render.NewRenderer(render.RendererConfig{
		Pretty:      pretty,
		StripPrefix: p.cfg.Prefix,
	}).RenderToString(doc.Root)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if out != "" {
		if err := p.loader.Write(ctx, out, []byte(markup), "text/html; charset=utf-8"); err != nil {
			return err
		}
		success(cmd.ErrOrStderr(), "Wrote %s", out)
	} else {
		fmt.Fprintln(w, markup)
	}

	if !noData {
		data, err := json.MarshalIndent(v.Data(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	}
	return nil
}

func parseScript(raw []byte) ([]scriptEvent, error) {
	var script []scriptEvent
	if err := json.Unmarshal(raw, &script); err != nil {
		return nil, errors.New(errors.CodeEventScript).Wrap(err)
	}
	for i, ev := range script {
		if ev.Selector == "" || ev.Type == "" {
			return nil, errors.New(errors.CodeEventScript).
				WithDetail(fmt.Sprintf("event %d needs both a selector and a type", i))
		}
	}
	return script, nil
}

// replay dispatches each event in order. Input events set the target's value
// first, as a browser would.
func replay(doc *dom.Document, script []scriptEvent) error {
	for i, ev := range script {
		node := doc.Query(ev.Selector)
		if node == nil {
			return errors.New(errors.CodeEventScript).
				WithDetail(fmt.Sprintf("event %d: no element matches %q", i, ev.Selector))
		}
		var err error
		if ev.Type == "input" {
			err = node.Input(ev.Value)
		} else {
			err = node.Dispatch(&dom.Event{Type: ev.Type, Target: node, Value: ev.Value})
		}
		if err != nil {
			return fmt.Errorf("event %d (%s on %s): %w", i, ev.Type, ev.Selector, err)
		}
	}
	return nil
}
