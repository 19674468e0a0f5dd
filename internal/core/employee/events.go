package employee

import (
	"errors"
	"sync"
	"time"
)

// AbsenceEvent は社員の欠勤通知です。
type AbsenceEvent struct {
	Employee   Employee
	OccurredAt time.Time
}

// AbsenceListener は欠勤通知の購読者です。
type AbsenceListener func(AbsenceEvent) error

type absenceSubscription struct {
	id       uint64
	listener AbsenceListener
}

// absenceBroadcaster は購読順に同期的に通知を配信します。
// 購読者がエラーを返しても後続の購読者への配信は継続します。
type absenceBroadcaster struct {
	mu     sync.Mutex
	nextID uint64
	subs   []absenceSubscription
}

func (b *absenceBroadcaster) subscribe(l AbsenceListener) func() {
	if l == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, absenceSubscription{id: id, listener: l})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (b *absenceBroadcaster) publish(evt AbsenceEvent) error {
	b.mu.Lock()
	subs := make([]absenceSubscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	var errs []error
	for _, s := range subs {
		if err := s.listener(evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
