package catalog

import (
	"sync"
	"sync/atomic"
)

// Sequencer hands out tickets for in-flight fetches so that only the most
// recently started fetch for a key may publish its result. Results of
// superseded fetches are discarded by the caller.
type Sequencer struct {
	next atomic.Uint64
	mu   sync.Mutex
	keys map[string]*sequence
}

type sequence struct {
	latest uint64
	active int
	write  sync.Mutex
}

// NewSequencer creates an empty sequencer
func NewSequencer() *Sequencer {
	return &Sequencer{keys: make(map[string]*sequence)}
}

// Begin registers a new fetch for key and returns its ticket. Every Begin
// must be paired with a Done.
func (s *Sequencer) Begin(key string) uint64 {
	ticket := s.next.Add(1)
	s.mu.Lock()
	seq := s.keys[key]
	if seq == nil {
		seq = &sequence{}
		s.keys[key] = seq
	}
	seq.latest = ticket
	seq.active++
	s.mu.Unlock()
	return ticket
}

// IsLatest reports whether ticket is still the newest fetch for key.
// Once a newer fetch has started, older tickets are never latest again.
func (s *Sequencer) IsLatest(key string, ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.keys[key]
	return seq != nil && seq.latest == ticket
}

// Publish runs write only while ticket is the newest fetch for key. Writes for
// the same key never overlap, so a superseded fetch cannot land after a newer
// one. It reports whether write ran.
func (s *Sequencer) Publish(key string, ticket uint64, write func() error) (bool, error) {
	s.mu.Lock()
	seq := s.keys[key]
	s.mu.Unlock()
	if seq == nil {
		return false, nil
	}

	seq.write.Lock()
	defer seq.write.Unlock()
	if !s.IsLatest(key, ticket) {
		return false, nil
	}
	return true, write()
}

// Done releases a ticket of key. The key is forgotten once no fetch is in flight.
func (s *Sequencer) Done(key string) {
	s.mu.Lock()
	if seq := s.keys[key]; seq != nil {
		seq.active--
		if seq.active <= 0 {
			delete(s.keys, key)
		}
	}
	s.mu.Unlock()
}
