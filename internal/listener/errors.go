package listener

import "errors"

// Registration errors. Check with errors.Is().
var (
	// ErrNilOwner is returned when a nil identity token is registered.
	ErrNilOwner = errors.New("listener: nil owner")

	// ErrNilCallback is returned when a request carries no notify callback.
	ErrNilCallback = errors.New("listener: nil notify callback")

	// ErrInvalidTier is returned when a request carries an undefined tier.
	ErrInvalidTier = errors.New("listener: invalid accuracy tier")

	// ErrInvalidFrequency is returned when a request carries an undefined
	// update frequency.
	ErrInvalidFrequency = errors.New("listener: invalid update frequency")
)
