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

// Package requestlog keeps a bounded, newest-first history of handled HTTP
// requests and fans every new entry out to live subscribers.
package requestlog

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCapacity is the number of entries retained when none is configured.
const DefaultCapacity = 300

// NoLimit asks List for every retained entry.
const NoLimit = -1

// Anonymous is recorded as the user of unauthenticated requests.
const Anonymous = "anonymous"

var (
	// ErrSubscriberClosed is returned by Send once a subscriber is closed.
	ErrSubscriberClosed = errors.New("subscriber closed")
	// ErrQueueFull is returned by Send when the outbound queue has no room.
	ErrQueueFull = errors.New("subscriber queue full")
)

// Entry represents a single handled HTTP request.
type Entry struct {
	// ID is assigned from a process-wide monotonic counter starting at 1.
	ID int64 `json:"id"`
	// Timestamp is when the request completed.
	Timestamp time.Time `json:"timestamp"`
	// Method is the HTTP method.
	Method string `json:"method"`
	// Path is the request URL path without the query string.
	Path string `json:"path"`
	// Status is the HTTP response status code.
	Status int `json:"status"`
	// DurationMs is the request processing time in milliseconds.
	DurationMs int64 `json:"durationMs"`
	// User is the authenticated subject or Anonymous.
	User string `json:"user"`
	// IP is the client address.
	IP string `json:"ip"`
}

// Subscriber receives published payloads. Send must not block: an
// implementation either queues the payload or returns an error.
type Subscriber interface {
	// ID uniquely identifies the subscriber within a Broadcaster.
	ID() string
	// Send queues payload for delivery.
	Send(payload []byte) error
	// Closed reports whether the subscriber can no longer receive.
	Closed() bool
	// Close releases the subscriber. It is safe to call more than once.
	Close()
}

// Store is a fixed-capacity ring of entries, newest first.
type Store struct {
	mu       sync.RWMutex
	entries  []Entry
	head     int
	size     int
	capacity int

	counter atomic.Int64
	metrics *instruments
}

// Broadcaster is the registry of live subscribers.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber

	logger  *slog.Logger
	metrics *instruments
}

// Recorder appends entries to a Store and publishes them afterwards.
type Recorder struct {
	store       *Store
	broadcaster *Broadcaster
	logger      *slog.Logger
}
