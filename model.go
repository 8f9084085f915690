package cfagui

import (
	"context"

	"github.com/casualjim/cfagui/provider"
	"github.com/casualjim/cfagui/provider/models"
)

// SetModel changes the model used by runs started afterwards.
func (a *Adapter) SetModel(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.model = name
}

// Model returns the current model id.
func (a *Adapter) Model() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.model
}

// Capabilities returns what the current model supports.
func (a *Adapter) Capabilities() models.Capabilities {
	return models.Get(a.Model())
}

// ListAvailableModels asks the source for the models it offers. Sources that
// cannot enumerate models fall back to the built-in capability table.
func (a *Adapter) ListAvailableModels(ctx context.Context) ([]string, error) {
	if lister, ok := a.source.(provider.ModelLister); ok {
		return lister.ListModels(ctx)
	}
	return models.Names(), nil
}
