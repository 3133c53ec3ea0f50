package generator

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Session holds the draft and revision history for one topic.
type Session struct {
	ID   string
	Spec Spec

	mu      sync.Mutex
	article Article
	history []Turn
	agent   *Agent
}

// NewSession creates a session without a draft.
func NewSession(id string, spec Spec, agent *Agent) *Session {
	return &Session{
		ID:    id,
		Spec:  spec,
		agent: agent,
	}
}

// Propose generates the first draft.
func (s *Session) Propose(ctx context.Context) (Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, err := s.agent.Generate(ctx, s.Spec, nil, s.history, "")
	if err != nil {
		return Article{}, err
	}
	s.article = article
	s.appendTurn("", article, "first draft")
	return article, nil
}

// Revise rewrites the current draft according to comment.
func (s *Session) Revise(ctx context.Context, comment string) (Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return Article{}, errors.New("session has no draft to revise")
	}
	prev := s.article
	article, err := s.agent.Generate(ctx, s.Spec, &prev, s.history, comment)
	if err != nil {
		return Article{}, err
	}
	s.article = article
	s.appendTurn(comment, article, "revision")
	return article, nil
}

// Snapshot returns the current draft and a copy of the history.
func (s *Session) Snapshot() (Article, []Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]Turn, len(s.history))
	copy(history, s.history)
	return s.article, history
}

func (s *Session) appendTurn(comment string, article Article, summary string) {
	s.history = append(s.history, Turn{
		Comment:   comment,
		Article:   article,
		Summary:   summary,
		CreatedAt: time.Now(),
	})
}
