package report

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks structural constraints on a Manifest before it is
// packaged, aggregating every problem into one error — the same
// errlist idiom the teacher's internal/validate/schema.go uses for
// its own Manifest, carried forward rather than reused verbatim since
// the field set is entirely different.
func Validate(m Manifest) error {
	var errs errlist

	if strings.TrimSpace(m.Namespace) == "" {
		errs.add("manifest.namespace must be non-empty")
	}
	if strings.TrimSpace(m.LoadFunctionSymbol) == "" {
		errs.add("manifest.loadFunctionSymbol must be non-empty")
	}
	if strings.TrimSpace(m.ModulesTableSymbol) == "" {
		errs.add("manifest.modulesTableSymbol must be non-empty")
	}
	if m.SourceBytes < 0 {
		errs.add("manifest.sourceBytes must be >= 0, got %d", m.SourceBytes)
	}
	if m.OutputBytes < 0 {
		errs.add("manifest.outputBytes must be >= 0, got %d", m.OutputBytes)
	}
	if !m.ModulesTableFound && (m.RemovedModules > 0 || m.RemovedBareCalls > 0) {
		errs.add("manifest reports shake activity but modulesTableFound is false")
	}

	return errs.err()
}

type errlist struct {
	msgs []string
}

func (e *errlist) add(format string, args ...any) {
	if e == nil {
		return
	}
	e.msgs = append(e.msgs, fmt.Sprintf(format, args...))
}

func (e *errlist) err() error {
	if e == nil || len(e.msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(e.msgs, "\n"))
}
