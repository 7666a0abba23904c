package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/internal/source"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/vm"
)

// project is a loaded configuration together with its sources. Template and
// data are read once; every bind parses them again so views never share
// state.
type project struct {
	cfg      *config.Config
	loader   *source.Loader
	template []byte
	data     []byte
	computed map[string]vm.Computed
	methods  map[string]vm.Method
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case flags.config != "":
		cfg, err = config.LoadFile(flags.config)
	default:
		cfg, err = config.LoadFromWorkingDir()
		var ve *errors.VbindError
		if stderrors.As(err, &ve) && ve.Code == errors.CodeConfigNotFound {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	if flags.template != "" {
		cfg.Template = flags.template
	}
	if flags.data != "" {
		cfg.Data = flags.data
	}
	if flags.selector != "" {
		cfg.Selector = flags.selector
	}
	if flags.strict {
		cfg.Strict = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadProject(ctx context.Context, flags *globalFlags) (*project, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	p := &project{
		cfg: cfg,
		loader: source.New(
			source.WithS3Config(cfg.S3.Region, cfg.S3.Endpoint),
			source.WithLogger(slog.Default()),
		),
		computed: make(map[string]vm.Computed, len(cfg.Computed)),
		methods:  make(map[string]vm.Method, len(cfg.Methods)),
	}

	for name, expression := range cfg.Computed {
		p.computed[name] = vm.ComputedExpr(expression)
	}
	for name, assignments := range cfg.Methods {
		m, err := vm.ExprMethod(assignments)
		if err != nil {
			return nil, errors.New(errors.CodeExpression).
				WithDetail("method " + name).
				Wrap(err)
		}
		p.methods[name] = m
	}

	if p.template, err = p.loader.Read(ctx, cfg.TemplatePath()); err != nil {
		return nil, err
	}
	if p.data, err = p.loader.Read(ctx, cfg.DataPath()); err != nil {
		return nil, err
	}
	return p, nil
}

// bind parses the template and data and binds a new view.
func (p *project) bind(ctx context.Context, observer vm.Observer) (*dom.Document, *vm.VM, error) {
	doc, err := dom.Parse(bytes.NewReader(p.template))
	if err != nil {
		return nil, nil, errors.New(errors.CodeTemplateParse).
			WithLocation(p.cfg.TemplatePath(), 0, 0).
			Wrap(err)
	}

	data, err := source.DecodeData(p.cfg.DataPath(), p.data)
	if err != nil {
		return nil, nil, err
	}

	v, err := vm.New(ctx, vm.Options{
		El:       p.cfg.Selector,
		Document: doc,
		Data:     data,
		Computed: p.computed,
		Methods:  p.methods,
		Prefix:   p.cfg.Prefix,
		Strict:   p.cfg.Strict,
		Logger:   slog.Default(),
		Observer: observer,
	})
	if err != nil {
		return nil, nil, err
	}
	return doc, v, nil
}
