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
	"encoding/json"
	"log/slog"
)

// NewRecorder wires store and broadcaster together.
func NewRecorder(
	logger *slog.Logger,
	store *Store,
	broadcaster *Broadcaster,
) *Recorder {
	return &Recorder{
		store:       store,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Record stores entry and then publishes its JSON form. The store lock is
// released before publishing so slow subscribers never stall writers. An
// encoding failure is logged and the entry stays recorded.
func (r *Recorder) Record(
	entry Entry,
) Entry {
	stored := r.store.Append(entry)

	payload, err := json.Marshal(stored)
	if err != nil {
		r.logger.Warn(
			"failed to encode request log entry",
			slog.Int64("id", stored.ID),
			slog.String("error", err.Error()),
		)
		return stored
	}

	r.broadcaster.Publish(payload)

	return stored
}

// Store returns the underlying store.
func (r *Recorder) Store() *Store {
	return r.store
}

// Broadcaster returns the underlying broadcaster.
func (r *Recorder) Broadcaster() *Broadcaster {
	return r.broadcaster
}
