package blueprint

import (
	"errors"
	"strings"

	"github.com/oliverbestmann/blueprint/spoke"
)

var (
	ErrCyclicInheritance          = errors.New("cyclic inheritance")
	ErrUnresolvedContextShape     = errors.New("context failed to create shape")
	ErrTargetNotInCompatibleShape = errors.New("target entity not in a compatible shape")
	ErrForeignShape               = errors.New("shape does not belong to context")
	ErrEntityNotFound             = spoke.ErrEntityNotFound
)

// CycleError is returned when the ancestor chain of a blueprint
// contains the blueprint itself. It matches ErrCyclicInheritance.
type CycleError struct {
	// Names of the blueprints on the resolution path, the first
	// and the last entry name the same blueprint.
	Chain []string
}

func (e *CycleError) Error() string {
	return ErrCyclicInheritance.Error() + ": " + strings.Join(e.Chain, " -> ")
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicInheritance
}
