// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package requestlog

import (
	"context"
	"log/slog"
)

// NewBroadcaster creates an empty subscriber registry.
func NewBroadcaster(
	logger *slog.Logger,
) *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]Subscriber),
		logger:      logger,
		metrics:     newInstruments(),
	}
}

// Register adds sub. Registering the same ID twice keeps a single entry.
func (b *Broadcaster) Register(
	sub Subscriber,
) {
	b.mu.Lock()
	_, exists := b.subscribers[sub.ID()]
	b.subscribers[sub.ID()] = sub
	b.mu.Unlock()

	if !exists {
		b.metrics.subscribers.Add(context.Background(), 1)
		b.logger.Debug("subscriber registered", slog.String("subscriber", sub.ID()))
	}
}

// Unregister removes sub. Unknown subscribers are ignored.
func (b *Broadcaster) Unregister(
	sub Subscriber,
) {
	if b.remove(sub.ID()) {
		b.logger.Debug("subscriber unregistered", slog.String("subscriber", sub.ID()))
	}
}

// Publish delivers payload to every registered subscriber and returns how
// many accepted it. Closed or failing subscribers are removed; they never
// prevent delivery to the others. The registry is snapshotted first, so
// Register and Unregister may run concurrently with a publish.
func (b *Broadcaster) Publish(
	payload []byte,
) int {
	delivered := 0
	for _, sub := range b.snapshot() {
		if sub.Closed() {
			b.remove(sub.ID())
			continue
		}

		if err := sub.Send(payload); err != nil {
			b.logger.Warn(
				"dropping subscriber",
				slog.String("subscriber", sub.ID()),
				slog.String("error", err.Error()),
			)

			b.metrics.deliveryFailures.Add(context.Background(), 1)
			b.remove(sub.ID())
			sub.Close()
			continue
		}

		delivered++
	}

	return delivered
}

// Len returns the number of registered subscribers.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subscribers)
}

// CloseAll closes and removes every subscriber.
func (b *Broadcaster) CloseAll() {
	for _, sub := range b.snapshot() {
		b.remove(sub.ID())
		sub.Close()
	}
}

func (b *Broadcaster) snapshot() []Subscriber {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subs := make([]Subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}

	return subs
}

func (b *Broadcaster) remove(
	id string,
) bool {
	b.mu.Lock()
	_, ok := b.subscribers[id]
	delete(b.subscribers, id)
	b.mu.Unlock()

	if ok {
		b.metrics.subscribers.Add(context.Background(), -1)
	}

	return ok
}
