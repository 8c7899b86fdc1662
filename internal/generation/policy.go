package generation

import (
	"fmt"

	"github.com/veladora/arcana-api/internal/domain"
)

// InvalidOutputPolicy selects what a generator does when the model response
// fails shape validation.
type InvalidOutputPolicy string

const (
	// PolicyFail surfaces the typed validation error to the caller, who can
	// offer a retry. This is the default.
	PolicyFail InvalidOutputPolicy = "fail"

	// PolicyDegrade returns a zero-card Reading carrying a fixed explanatory
	// interpretation instead of an error. This is a last-resort degradation
	// mode, never silent success: the zero-card shape is itself the signal.
	PolicyDegrade InvalidOutputPolicy = "degrade"
)

// DegradedInterpretation is the interpretation text of the fallback Reading
// produced under PolicyDegrade. Spanish, like every reading the service
// produces.
const DegradedInterpretation = "Error en la generación de la lectura. " +
	"No se pudo procesar la información de las cartas. " +
	"Por favor, inténtalo de nuevo."

// ParseInvalidOutputPolicy validates a policy string from configuration.
// Returns ErrInvalidConfig for anything but "fail" and "degrade".
func ParseInvalidOutputPolicy(s string) (InvalidOutputPolicy, error) {
	switch InvalidOutputPolicy(s) {
	case PolicyFail, PolicyDegrade:
		return InvalidOutputPolicy(s), nil
	default:
		return "", fmt.Errorf("%w: unknown invalid-output policy %q", ErrInvalidConfig, s)
	}
}

// DegradedReading builds the zero-card fallback Reading used under
// PolicyDegrade. It is the only valid zero-card Reading in the system.
func DegradedReading() *domain.Reading {
	return &domain.Reading{
		Interpretation: DegradedInterpretation,
		Cards:          []domain.DrawnCard{},
	}
}
