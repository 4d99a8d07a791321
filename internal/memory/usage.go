package memory

// Usage tracks token consumption across a thread's completions.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Add merges u's counters into the receiver.
func (a *Usage) Add(u *Usage) {
	if u == nil {
		return
	}
	a.PromptTokens += u.PromptTokens
	a.CompletionTokens += u.CompletionTokens
	a.TotalTokens += u.TotalTokens
}
