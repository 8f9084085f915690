package stdx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMust1(t *testing.T) {
	assert.Equal(t, 42, Must1(42, nil))
	assert.PanicsWithError(t, "boom", func() { Must1(0, errors.New("boom")) })
}
