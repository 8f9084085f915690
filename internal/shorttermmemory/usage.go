package shorttermmemory

// Usage counts tokens across runs.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// AddUsage adds the counts of other to u. A nil other is ignored.
func (u *Usage) AddUsage(other *Usage) {
	if other == nil {
		return
	}
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// UsageFrom reads the token counts out of a METADATA usage payload. Missing
// or non-numeric entries count as zero; a missing total is derived from the
// other two.
func UsageFrom(raw map[string]any) Usage {
	u := Usage{
		PromptTokens:     toInt64(raw["prompt_tokens"]),
		CompletionTokens: toInt64(raw["completion_tokens"]),
		TotalTokens:      toInt64(raw["total_tokens"]),
	}
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	default:
		return 0
	}
}
