package descriptor

import (
	"errors"
	"fmt"
)

// ErrDescriptorFormat is wrapped by every FormatError.
var ErrDescriptorFormat = errors.New("descriptor format error")

// FormatError is returned when a descriptor does not contain a key
// expression with origin info, or when none of the descriptors of a wallet
// qualifies as the signer one.
type FormatError struct {
	Descriptor   string
	NoCandidate  bool
	ScriptPrefix string
}

func (e *FormatError) Error() string {
	if e.NoCandidate {
		return fmt.Sprintf(
			"%s: no external descriptor with script template %q",
			ErrDescriptorFormat, e.ScriptPrefix,
		)
	}
	return fmt.Sprintf(
		"%s: no key origin found in %q", ErrDescriptorFormat, e.Descriptor,
	)
}

func (e *FormatError) Unwrap() error {
	return ErrDescriptorFormat
}
