package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateArchitecture(t *testing.T) {
	assert.NoError(t, ValidateArchitecture(ArchX8664))
	assert.NoError(t, ValidateArchitecture(ArchARM64))

	for _, invalid := range []string{"", "x86", "X86_64", "arm", "foo"} {
		assert.ErrorIs(t, ValidateArchitecture(invalid), ErrInvalidArchitecture, invalid)
	}
}
