package input

// Queue is an unbounded multi-producer single-consumer event queue. Sends
// never block on a slow consumer; a pump goroutine buffers whatever the
// consumer has not picked up yet. Order is FIFO per producer, arrival order
// across producers.
type Queue struct {
	in  chan Event
	out chan Event
}

func NewQueue() *Queue {
	q := &Queue{
		in:  make(chan Event),
		out: make(chan Event),
	}
	go q.pump()
	return q
}

// Send hands an event to the queue.
func (q *Queue) Send(ev Event) {
	q.in <- ev
}

// Events returns the receive side. There must be exactly one consumer.
func (q *Queue) Events() <-chan Event {
	return q.out
}

func (q *Queue) pump() {
	var backlog []Event
	for {
		out := q.out
		var next Event
		if len(backlog) == 0 {
			out = nil
		} else {
			next = backlog[0]
		}

		select {
		case ev := <-q.in:
			backlog = append(backlog, ev)
		case out <- next:
			backlog = backlog[1:]
		}
	}
}
