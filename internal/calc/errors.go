package calc

import "errors"

var (
	// ErrUnknownMethod is returned for a method identifier not in the registry.
	ErrUnknownMethod = errors.New("unknown calculation method")
	// ErrUnknownMadhab is returned for an unrecognised madhab.
	ErrUnknownMadhab = errors.New("unknown madhab")
	// ErrUnresolvableAngle is returned when the sun never reaches an altitude
	// the method needs on that day, as happens at polar latitudes.
	ErrUnresolvableAngle = errors.New("unresolvable solar angle")
	// ErrInvalidComputation is returned when computed times are not strictly
	// increasing within a single day.
	ErrInvalidComputation = errors.New("invalid prayer time computation")
)
