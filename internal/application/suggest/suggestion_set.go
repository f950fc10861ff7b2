package suggest

import (
	"strings"
	"sync"

	"github.com/doeshing/shell-ai/internal/domain"
)

// suggestionSet collects commands from concurrent calls, keeping the first
// occurrence of each distinct text.
type suggestionSet struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

func newSuggestionSet() *suggestionSet {
	return &suggestionSet{seen: map[string]struct{}{}}
}

func (s *suggestionSet) add(command string) bool {
	command = strings.TrimSpace(command)
	if command == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[command]; dup {
		return false
	}
	s.seen[command] = struct{}{}
	s.order = append(s.order, command)
	return true
}

func (s *suggestionSet) suggestions() []domain.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Suggestion, 0, len(s.order))
	for i, cmd := range s.order {
		out = append(out, domain.Suggestion{Command: cmd, Ordinal: i + 1})
	}
	return out
}
