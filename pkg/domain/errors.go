package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrorKind classifies the terminal outcomes of a placement request.
type ErrorKind string

// Placement request error kinds. They are mutually exclusive.
const (
	KindInvalidSpecies    ErrorKind = "invalid_species"
	KindInvalidQuantity   ErrorKind = "invalid_quantity"
	KindNoViableEnclosure ErrorKind = "no_viable_enclosure"
)

var kindMessages = map[ErrorKind]string{
	KindInvalidSpecies:    "Animal inválido",
	KindInvalidQuantity:   "Quantidade inválida",
	KindNoViableEnclosure: "Não há recinto viável",
}

// EvaluationError is returned when a placement request cannot produce placements.
type EvaluationError struct {
	Kind     ErrorKind
	Species  string
	Quantity string
}

// Sentinel errors for errors.Is matching on kind.
var (
	ErrInvalidSpecies    = EvaluationError{Kind: KindInvalidSpecies}
	ErrInvalidQuantity   = EvaluationError{Kind: KindInvalidQuantity}
	ErrNoViableEnclosure = EvaluationError{Kind: KindNoViableEnclosure}
)

func (e EvaluationError) Error() string {
	switch e.Kind {
	case KindInvalidSpecies:
		return fmt.Sprintf("invalid species %q", e.Species)
	case KindInvalidQuantity:
		return fmt.Sprintf("invalid quantity %q", e.Quantity)
	case KindNoViableEnclosure:
		return fmt.Sprintf("no viable enclosure for %s x%s", e.Species, e.Quantity)
	default:
		return string(e.Kind)
	}
}

// Message returns the localized text shown to zoo staff.
func (e EvaluationError) Message() string {
	if msg, ok := kindMessages[e.Kind]; ok {
		return msg
	}
	return e.Error()
}

// Is matches any EvaluationError of the same kind.
func (e EvaluationError) Is(target error) bool {
	t, ok := target.(EvaluationError)
	return ok && t.Kind == e.Kind
}

// ParseQuantity converts user input into a strictly positive integer quantity.
func ParseQuantity(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	n, err := strconv.Atoi(trimmed)
	if err != nil || n <= 0 {
		return 0, EvaluationError{Kind: KindInvalidQuantity, Quantity: trimmed}
	}
	return n, nil
}
