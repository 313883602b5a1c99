package stack

import (
	"errors"
	"fmt"
)

// Instruction set architectures a function may declare.
const (
	ArchX8664 = "x86_64"
	ArchARM64 = "arm64"
)

// ErrInvalidArchitecture is returned for architecture values outside the
// supported set.
var ErrInvalidArchitecture = errors.New("invalid architecture")

// ValidateArchitecture checks a declared architecture value.
func ValidateArchitecture(architecture string) error {
	if architecture != ArchX8664 && architecture != ArchARM64 {
		return fmt.Errorf("%w: %q (valid values are %s or %s)",
			ErrInvalidArchitecture, architecture, ArchARM64, ArchX8664)
	}
	return nil
}
