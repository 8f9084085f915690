package toolcall

import (
	"testing"

	"github.com/casualjim/cfagui/provider"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	acc := New()

	obs := acc.Observe(provider.ToolCallDelta{ID: "c1", Name: "f", Arguments: `{"a":`})
	assert.Equal(t, Observation{First: true, ID: "c1", Name: "f"}, obs)

	obs = acc.Observe(provider.ToolCallDelta{ID: "c1", Arguments: "1}"})
	assert.Equal(t, Observation{First: false, ID: "c1", Name: "f"}, obs)

	assert.Equal(t, `{"a":1}`, acc.Arguments("c1"))
	assert.Equal(t, 1, acc.Len())
}

func TestObserveNameIsSetOnce(t *testing.T) {
	acc := New()
	acc.Observe(provider.ToolCallDelta{ID: "c1", Name: "first"})
	obs := acc.Observe(provider.ToolCallDelta{ID: "c1", Name: "second", Arguments: "{}"})

	assert.False(t, obs.First)
	assert.Equal(t, "first", obs.Name)
	assert.Equal(t, "first", acc.Name("c1"))
}

func TestObserveAnonymousFirstFragment(t *testing.T) {
	acc := New()
	obs := acc.Observe(provider.ToolCallDelta{ID: "c9", Arguments: "{}"})

	assert.True(t, obs.First)
	assert.Empty(t, obs.Name)
	assert.Equal(t, "{}", acc.Arguments("c9"))
}

func TestArgumentsAreVerbatim(t *testing.T) {
	acc := New()
	fragments := []string{"{", "  \"x\"", ":", "", " [1,1]", "}"}
	for _, f := range fragments {
		acc.Observe(provider.ToolCallDelta{ID: "c1", Arguments: f})
	}
	assert.Equal(t, "{  \"x\": [1,1]}", acc.Arguments("c1"))
	assert.Empty(t, acc.Arguments("unknown"))
}

func TestCloseAndOpen(t *testing.T) {
	acc := New()
	acc.Observe(provider.ToolCallDelta{ID: "b", Name: "f"})
	acc.Observe(provider.ToolCallDelta{ID: "a", Name: "g"})
	acc.Observe(provider.ToolCallDelta{ID: "c", Name: "h"})
	acc.Observe(provider.ToolCallDelta{ID: "b", Arguments: "{}"})

	assert.Equal(t, []string{"b", "a", "c"}, acc.Open())

	assert.True(t, acc.Close("a"))
	assert.False(t, acc.Close("a"))
	assert.False(t, acc.Close("missing"))
	assert.Equal(t, []string{"b", "c"}, acc.Open())

	assert.True(t, acc.Close("b"))
	assert.True(t, acc.Close("c"))
	assert.Empty(t, acc.Open())
}

func TestAccumulatorsAreIndependent(t *testing.T) {
	first := New()
	first.Observe(provider.ToolCallDelta{ID: "c1", Name: "f", Arguments: "{}"})

	second := New()
	obs := second.Observe(provider.ToolCallDelta{ID: "c1", Name: "f"})
	assert.True(t, obs.First)
	assert.Empty(t, second.Arguments("c1"))
}
