package cloudflare

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

const maxErrorBody = 64 << 10

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	// Messages are the entries of the "errors" list of the Cloudflare
	// response envelope.
	Messages []string
	// Body is the raw response body when it is not a Cloudflare envelope.
	Body string
}

func (e *APIError) Error() string {
	switch {
	case len(e.Messages) > 0:
		return fmt.Sprintf("cloudflare: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), strings.Join(e.Messages, "; "))
	case e.Body != "":
		return fmt.Sprintf("cloudflare: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	default:
		return fmt.Sprintf("cloudflare: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if gjson.ValidBytes(data) {
		gjson.GetBytes(data, "errors").ForEach(func(_, value gjson.Result) bool {
			if msg := value.Get("message").String(); msg != "" {
				apiErr.Messages = append(apiErr.Messages, msg)
			}
			return true
		})
	}
	if len(apiErr.Messages) == 0 {
		apiErr.Body = strings.TrimSpace(string(data))
	}
	return apiErr
}
