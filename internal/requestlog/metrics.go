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
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/retr0h/reqwatch/internal/requestlog"

type instruments struct {
	entries          metric.Int64Counter
	evictions        metric.Int64Counter
	subscribers      metric.Int64UpDownCounter
	deliveryFailures metric.Int64Counter
}

// newInstruments binds to the global meter provider. Instrument creation
// errors leave a no-op instrument in place, so they are ignored.
func newInstruments() *instruments {
	meter := otel.Meter(meterName)

	entries, _ := meter.Int64Counter(
		"reqwatch.requestlog.entries",
		metric.WithDescription("Request log entries recorded."),
	)
	evictions, _ := meter.Int64Counter(
		"reqwatch.requestlog.evictions",
		metric.WithDescription("Entries evicted because the log was full."),
	)
	subscribers, _ := meter.Int64UpDownCounter(
		"reqwatch.stream.subscribers",
		metric.WithDescription("Live request stream subscribers."),
	)
	deliveryFailures, _ := meter.Int64Counter(
		"reqwatch.stream.delivery_failures",
		metric.WithDescription("Subscribers evicted after a failed delivery."),
	)

	return &instruments{
		entries:          entries,
		evictions:        evictions,
		subscribers:      subscribers,
		deliveryFailures: deliveryFailures,
	}
}
