package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
)

const starterTemplate = `<div id="app">
  <h1>{{ title }}</h1>
  <p>Hello, <b v-text="name"></b>! You typed {{ length }} characters.</p>
  <input v-model="name" v-bind:placeholder="hint">
  <button v-on:click="reset">Reset</button>
</div>
`

const starterData = `{
  "title": "vbind",
  "name": "world",
  "hint": "Your name"
}
`

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create vbind.json with a starter template and data",
		Long: `Create vbind.json, index.html and data.json in the given directory
(default: the current directory).

Examples:
  vbind init
  vbind init playground`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	out := cmd.OutOrStdout()
	if config.Exists(dir) && !force {
		return errors.Newf(errors.CategoryCLI, "%s already exists in %s", config.ConfigFileName, dir).
			WithSuggestion("Use --force to overwrite it")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	cfg := config.New()
	cfg.Computed = map[string]string{"length": "len(name)"}
	cfg.Methods = map[string]map[string]string{"reset": {"name": `""`}}

	files := map[string]string{
		config.DefaultTemplate: starterTemplate,
		config.DefaultData:     starterData,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !force {
			warn(out, "Keeping existing %s", path)
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
		info(out, "Created %s", path)
	}

	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		return err
	}
	success(out, "Created %s", cfg.Path())
	fmt.Fprintln(out)
	info(out, "Next: vbind bind --pretty, or vbind serve")
	return nil
}
