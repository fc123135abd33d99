package campus

import "sync"

// Selection holds the campus picked by the user. Memory only.
type Selection struct {
	mu     sync.RWMutex
	campus *Campus
}

func NewSelection() *Selection {
	return &Selection{}
}

func (s *Selection) Select(c Campus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campus = &c
}

// Selected returns a copy of the selected campus, or nil.
func (s *Selection) Selected() *Campus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.campus == nil {
		return nil
	}
	c := *s.campus
	return &c
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campus = nil
}
