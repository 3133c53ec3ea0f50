package generator

import (
	"context"
	"errors"
	"fmt"
)

// Agent drafts and revises articles through an LLM.
type Agent struct {
	llm    LLMClient
	layout Layout
}

func NewAgent(llm LLMClient, layout Layout) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if len(layout.Sections) == 0 {
		return nil, errors.New("layout declares no sections")
	}
	return &Agent{llm: llm, layout: layout}, nil
}

// Layout returns the reply format the agent requests.
func (a *Agent) Layout() Layout { return a.layout }

// Generate writes a first draft when prev is nil and a revision otherwise.
func (a *Agent) Generate(ctx context.Context, spec Spec, prev *Article, history []Turn, comment string) (Article, error) {
	var prompt Prompt
	if prev == nil {
		prompt = BuildInitialPrompt(spec, a.layout)
	} else {
		prompt = BuildRevisionPrompt(spec, a.layout, *prev, comment, history)
	}

	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return Article{}, fmt.Errorf("llm complete: %w", err)
	}
	return PostProcess(raw, spec, a.layout)
}
