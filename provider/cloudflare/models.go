package cloudflare

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

// TextGenerationTask is the Workers AI task name of chat models.
const TextGenerationTask = "Text Generation"

// ListModels implements provider.ModelLister. It returns the names of the
// text generation models available to the account.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	query := url.Values{"task": {TextGenerationTask}}
	resp, err := c.do(ctx, http.MethodGet, "/ai/models/search?"+query.Encode(), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: read models: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("cloudflare: invalid models response: %s", data)
	}

	var names []string
	gjson.GetBytes(data, "result").ForEach(func(_, model gjson.Result) bool {
		if name := model.Get("name").String(); name != "" {
			names = append(names, name)
		}
		return true
	})
	return names, nil
}
