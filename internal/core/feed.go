package core

import "context"

// Subscriber receives messages published to a Feed.
type Subscriber struct {
	ID       string
	Messages chan Message
}

// Feed fans out newly posted messages to live subscribers.
// Subscribers that fall behind lose messages instead of blocking the poster.
type Feed struct {
	register    chan *Subscriber
	unregister  chan *Subscriber
	publish     chan Message
	done        chan struct{}
	subscribers map[*Subscriber]struct{}
	buffer      int
}

// NewFeed creates a feed whose subscribers buffer up to buffer messages.
func NewFeed(buffer int) *Feed {
	if buffer <= 0 {
		buffer = 16
	}
	return &Feed{
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		publish:     make(chan Message),
		done:        make(chan struct{}),
		subscribers: make(map[*Subscriber]struct{}),
		buffer:      buffer,
	}
}

// Run processes subscriptions and deliveries until ctx is cancelled.
func (f *Feed) Run(ctx context.Context) {
	defer func() {
		for s := range f.subscribers {
			delete(f.subscribers, s)
			close(s.Messages)
		}
		close(f.done)
	}()

	for {
		select {
		case s := <-f.register:
			f.subscribers[s] = struct{}{}
		case s := <-f.unregister:
			if _, ok := f.subscribers[s]; ok {
				delete(f.subscribers, s)
				close(s.Messages)
			}
		case msg := <-f.publish:
			for s := range f.subscribers {
				select {
				case s.Messages <- msg:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// Subscribe registers a new subscriber. Once the feed has stopped the
// returned subscriber's channel is already closed.
func (f *Feed) Subscribe(id string) *Subscriber {
	s := &Subscriber{
		ID:       id,
		Messages: make(chan Message, f.buffer),
	}
	select {
	case f.register <- s:
	case <-f.done:
		close(s.Messages)
	}
	return s
}

// Unsubscribe removes s and closes its channel.
func (f *Feed) Unsubscribe(s *Subscriber) {
	select {
	case f.unregister <- s:
	case <-f.done:
	}
}

// Publish delivers msg to every current subscriber.
func (f *Feed) Publish(msg Message) {
	select {
	case f.publish <- msg:
	case <-f.done:
	}
}

