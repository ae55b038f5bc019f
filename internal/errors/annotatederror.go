// Package errors extends the standard library errors with slog annotations and call-site information.
//
// Use Wrap at the application edges to attach structured context to an error. SlogError turns the
// whole chain into a single slog.Attr so that the annotations end up in the log line.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

// annotatedError carries a message, optional slog attributes and the location where it was created.
type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	file  string
	line  int
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	if e.msg == "" {
		return e.err.Error()
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// NewSentinel creates an error meant to be compared with Is. It does not record a call site.
func NewSentinel(msg string) error {
	return stderrors.New(msg)
}

// New creates an error annotated with the caller's location and the given attributes.
func New(msg string, attrs ...slog.Attr) error {
	return newAnnotated(msg, nil, attrs, 2) //nolint:mnd // skip newAnnotated and New
}

// Wrap annotates err with a message and attributes. The caller's location is recorded.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return newAnnotated(msg, err, attrs, 2) //nolint:mnd // skip newAnnotated and Wrap
}

func newAnnotated(msg string, err error, attrs []slog.Attr, skip int) *annotatedError {
	e := &annotatedError{msg: msg, err: err, attrs: attrs, file: "", line: 0}
	if _, file, line, ok := runtime.Caller(skip); ok {
		e.file = file
		e.line = line
	}
	return e
}

// DecoratePanic converts a recovered panic value into an error pointing at the panicking line.
//
// Call it inside the deferred function with the value returned by recover(). Returns nil when v is nil.
func DecoratePanic(v any) error {
	if v == nil {
		return nil
	}
	e := &annotatedError{msg: fmt.Sprintf("panic: %v", v), err: nil, attrs: nil, file: "", line: 0}
	if err, ok := v.(error); ok {
		e.msg = "panic"
		e.err = err
	}

	const maxDepth = 32
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(2, pcs) //nolint:mnd // skip runtime.Callers and DecoratePanic
	frames := runtime.CallersFrames(pcs[:n])
	afterPanic := false
	for {
		frame, more := frames.Next()
		if afterPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			e.file = frame.File
			e.line = frame.Line
			break
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			break
		}
	}
	return e
}

// SlogError converts err into a slog group named "error" containing the message, the merged
// annotations of the whole chain and the location of the innermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	var (
		annotations []any
		source      string
	)
	walk(err, func(ae *annotatedError) {
		for _, attr := range ae.attrs {
			annotations = append(annotations, attr)
		}
		if ae.file != "" {
			source = ae.file + ":" + strconv.Itoa(ae.line)
		}
	})

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

// walk visits every annotated error in the tree from outermost to innermost.
func walk(err error, visit func(*annotatedError)) {
	if err == nil {
		return
	}
	if ae, ok := err.(*annotatedError); ok { //nolint:errorlint // we walk the tree manually.
		visit(ae)
	}
	switch u := err.(type) { //nolint:errorlint // we walk the tree manually.
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			walk(inner, visit)
		}
	case interface{ Unwrap() error }:
		walk(u.Unwrap(), visit)
	}
}

// Is reports whether any error in err's tree matches target. See [errors.Is].
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target. See [errors.As].
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err. See [errors.Unwrap].
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join returns an error that wraps the given errors. See [errors.Join].
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
