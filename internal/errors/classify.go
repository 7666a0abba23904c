package errors

import (
	stderrors "errors"

	"github.com/vango-dev/vbind/pkg/compiler"
	"github.com/vango-dev/vbind/pkg/directive"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/vm"
)

// Classify maps an error from the binding packages to a registered code.
// Template node paths become the location. Errors that match nothing are
// wrapped under CategoryRuntime without a code.
func Classify(err error) *VbindError {
	if err == nil {
		return nil
	}
	var ve *VbindError
	if stderrors.As(err, &ve) {
		return ve
	}

	node := ""
	var diag compiler.Diagnostic
	if stderrors.As(err, &diag) && diag.Node != nil {
		node = diag.Node.Path()
	}

	out := classify(err)
	if node != "" {
		out.WithNode(node)
	}
	return out
}

func classify(err error) *VbindError {
	var (
		pathErr    *reactive.PathResolutionError
		cbErr      *reactive.CallbackError
		unknownErr *directive.UnknownDirectiveError
		invalidErr *directive.InvalidDirectiveError
	)
	switch {
	case stderrors.As(err, &unknownErr):
		e := New(CodeUnknownDirective).Wrap(err)
		if unknownErr.Node != nil {
			e.WithNode(unknownErr.Node.Path())
		}
		return e
	case stderrors.As(err, &invalidErr):
		e := New(CodeInvalidDirective).Wrap(err).WithDetail(invalidErr.Reason)
		if invalidErr.Node != nil {
			e.WithNode(invalidErr.Node.Path())
		}
		return e
	case stderrors.As(err, &cbErr):
		return New(CodeCallbackFailed).Wrap(err)
	case stderrors.As(err, &pathErr):
		return New(CodePathResolution).Wrap(err)
	case stderrors.Is(err, reactive.ErrReadOnly):
		return New(CodeReadOnly).Wrap(err)
	case stderrors.Is(err, reactive.ErrEmptyPath):
		return New(CodeEmptyPath).Wrap(err)
	case stderrors.Is(err, reactive.ErrNotMapping):
		return New(CodeNotMapping).Wrap(err)
	case stderrors.Is(err, vm.ErrUnknownMethod):
		return New(CodeUnknownMethod).Wrap(err)
	case stderrors.Is(err, vm.ErrElementNotFound):
		return New(CodeElementNotFound).Wrap(err)
	}
	return &VbindError{Category: CategoryRuntime, Message: err.Error()}
}
