// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Two failure channels exist. The error channel carries recoverable,
// explicit failures through Recover/Either/Absolve. Terminal failures are
// defects — panics that escape every Catch — and abort the run.

// ErrTimeout is the error channel failure produced by [Effect.Timeout]
// when the timer wins the race against the wrapped effect.
var ErrTimeout = errors.New("effect: timed out")

// RetryError aggregates the ordered failures collected by [Effect.Retry]
// when the schedule halts before any attempt succeeds.
type RetryError struct {
	Errs []error
}

// Error implements the error interface.
func (e *RetryError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("effect: retry exhausted after %d attempts: %s",
		len(e.Errs), strings.Join(msgs, "; "))
}

// Unwrap exposes the collected failures to errors.Is and errors.As.
func (e *RetryError) Unwrap() []error {
	return e.Errs
}

// CapabilityError is the defect raised (as a panic) when an effect graph
// requests a capability that neither a provided instance nor the ambient
// environment satisfies. It escapes [Run] as a terminal failure: an
// unsatisfiable dependency is a wiring bug, not a runtime condition.
type CapabilityError struct {
	// Capability is the name of the requested capability type.
	Capability string

	// Have describes the environment that failed to satisfy it.
	Have string

	// RunID identifies the evaluation that raised the defect.
	RunID uuid.UUID
}

// Error implements the error interface.
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("effect: environment %s does not satisfy capability %s (run %s)",
		e.Have, e.Capability, e.RunID)
}
