package cfagui

import (
	"testing"

	"github.com/casualjim/cfagui/provider/models"
	"github.com/casualjim/cfagui/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets(t *testing.T) {
	tests := []struct {
		name   string
		create func(...Option) (*Adapter, error)
		model  string
	}{
		{name: "llama3_8b", create: Llama3_8B, model: models.Llama3_1_8B},
		{name: "llama3_70b", create: Llama3_70B, model: models.Llama3_1_70B},
		{name: "mistral7b", create: Mistral7B, model: models.Mistral7B},
		{name: "auto", create: Auto, model: models.Llama3_1_8B},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, err := tt.create(WithSource(&mockSource{}), Model("@cf/ignored/model"))
			require.NoError(t, err)
			assert.Equal(t, tt.model, adapter.Model())
			assert.True(t, adapter.Capabilities().Streaming)
		})
	}
}

func TestAutoWithTools(t *testing.T) {
	type search struct {
		Query string `json:"query"`
	}
	adapter, err := Auto(WithSource(&mockSource{}), Tools(tool.Must[search]()))
	require.NoError(t, err)

	assert.Equal(t, models.Llama3_3_70B, adapter.Model())
	assert.True(t, adapter.Capabilities().FunctionCalling)
}

func TestPresetsRequireCredentials(t *testing.T) {
	_, err := Llama3_8B()
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = Auto(AccountID("acct"))
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestWithConfig(t *testing.T) {
	cfg := Config{AccountID: "acct", APIToken: "tok", SystemPrompt: "base"}
	adapter, err := New(WithConfig(cfg), SystemPrompt("override"), WithSource(&mockSource{}))
	require.NoError(t, err)
	assert.Equal(t, "override", adapter.cfg.SystemPrompt)
	assert.Equal(t, "acct", adapter.cfg.AccountID)
	assert.Equal(t, DialectNative, adapter.cfg.Dialect)
}
