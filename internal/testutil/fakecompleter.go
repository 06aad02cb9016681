package testutil

import (
	"context"
	"sync"
)

// FakeCompleter returns a scripted completion and records every prompt.
type FakeCompleter struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Prompts []string
}

// Complete implements assistant.Completer.
func (f *FakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

// LastPrompt returns the most recent prompt, or "".
func (f *FakeCompleter) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Prompts) == 0 {
		return ""
	}
	return f.Prompts[len(f.Prompts)-1]
}

// CallCount returns the number of completions requested.
func (f *FakeCompleter) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Prompts)
}
