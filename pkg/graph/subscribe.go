package graph

import "github.com/aretw0/missionkit/pkg/domain"

type subscription struct {
	id int
	fn func(domain.Change)
}

// Subscribe registers fn to be called synchronously after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(domain.Change)) (unsubscribe func()) {
	s.nextSub++
	sub := &subscription{id: s.nextSub, fn: fn}
	s.subs = append(s.subs, sub)
	return func() {
		for i, existing := range s.subs {
			if existing.id == sub.id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) emit(c domain.Change) {
	// Iterate over a snapshot so subscribers may unsubscribe while being notified.
	subs := s.subs
	for _, sub := range subs {
		sub.fn(c)
	}
}
