package poetrade

import (
	"errors"
	"fmt"

	"github.com/sig-0/flip/storage/types"
)

var (
	ErrAcquisition    = errors.New("acquisition failed")
	ErrMalformedOffer = errors.New("malformed offer")

	errMissingAttribute = errors.New("missing attribute")
	errNegativeStock    = errors.New("negative stock")
	errNonPositiveValue = errors.New("value must be positive")
	errZeroBuyValue     = errors.New("zero buy value")
	errDegenerateRate   = errors.New("conversion rate rounds to zero")
)

// MalformedOfferError is a listing fragment that carries stock,
// but whose remaining attributes cannot be parsed
type MalformedOfferError struct {
	Err       error
	Attribute string
	Value     string
}

func (e *MalformedOfferError) Error() string {
	return fmt.Sprintf(
		"malformed offer, %s=%q: %s",
		e.Attribute,
		e.Value,
		e.Err,
	)
}

func (e *MalformedOfferError) Unwrap() error {
	return e.Err
}

func (e *MalformedOfferError) Is(target error) bool {
	return target == ErrMalformedOffer
}

// AcquisitionError is a failed marketplace acquisition for a single pair
type AcquisitionError struct {
	Err    error
	League string
	Pair   types.Pair
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf(
		"unable to acquire offers (want %s, have %s, league %q): %s",
		e.Pair.Want,
		e.Pair.Have,
		e.League,
		e.Err,
	)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

func (e *AcquisitionError) Is(target error) bool {
	return target == ErrAcquisition
}
