package storage

import "sync"

// Notifier fans day-document change snapshots out to subscribers. Both the
// in-memory and the SQLite backend embed one; a hosted document store would
// replace it with the store's own push channel.
//
// Each subscriber gets its own unbounded queue drained by a dedicated
// goroutine, so callbacks run out-of-band relative to the mutating call but
// still observe snapshots in publish order. The queue is unbounded because a
// slow subscriber must delay neither writers nor other subscribers.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]*subscriber
}

type subscriber struct {
	mu      sync.Mutex
	fn      func(Document)
	pending []Document
	signal  chan struct{} // buffered, size 1
	done    chan struct{}
}

// NewNotifier returns an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[int]*subscriber)}
}

// Subscribe registers fn for snapshots of day. The returned CancelFunc stops
// delivery; it is safe to call more than once.
func (n *Notifier) Subscribe(day string, fn func(Document)) CancelFunc {
	sub := &subscriber{
		fn:     fn,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go sub.run()

	n.mu.Lock()
	id := n.next
	n.next++
	if n.subs[day] == nil {
		n.subs[day] = make(map[int]*subscriber)
	}
	n.subs[day][id] = sub
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs[day], id)
			if len(n.subs[day]) == 0 {
				delete(n.subs, day)
			}
			n.mu.Unlock()
			close(sub.done)
		})
	}
}

// Publish queues a snapshot of doc for every subscriber of day.
// Every subscriber receives its own clone.
func (n *Notifier) Publish(day string, doc Document) {
	n.mu.Lock()
	targets := make([]*subscriber, 0, len(n.subs[day]))
	for _, sub := range n.subs[day] {
		targets = append(targets, sub)
	}
	n.mu.Unlock()

	for _, sub := range targets {
		sub.enqueue(doc.Clone())
	}
}

func (s *subscriber) enqueue(doc Document) {
	s.mu.Lock()
	s.pending = append(s.pending, doc)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.signal:
		}

		for {
			s.mu.Lock()
			if len(s.pending) == 0 {
				s.mu.Unlock()
				break
			}
			doc := s.pending[0]
			s.pending = s.pending[1:]
			s.mu.Unlock()

			select {
			case <-s.done:
				return
			default:
			}
			s.fn(doc)
		}
	}
}
