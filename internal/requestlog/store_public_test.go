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

package requestlog_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/reqwatch/internal/requestlog"
)

type StorePublicTestSuite struct {
	suite.Suite
}

func (s *StorePublicTestSuite) newEntry(
	path string,
) requestlog.Entry {
	return requestlog.Entry{
		Timestamp:  time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Method:     "GET",
		Path:       path,
		Status:     200,
		DurationMs: 3,
		User:       requestlog.Anonymous,
		IP:         "127.0.0.1",
	}
}

func (s *StorePublicTestSuite) TestNewStore() {
	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{
			name:     "when capacity provided",
			capacity: 10,
			want:     10,
		},
		{
			name:     "when capacity zero uses default",
			capacity: 0,
			want:     requestlog.DefaultCapacity,
		},
		{
			name:     "when capacity negative uses default",
			capacity: -5,
			want:     requestlog.DefaultCapacity,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			store := requestlog.NewStore(tt.capacity)
			s.Equal(tt.want, store.Capacity())
			s.Equal(0, store.Len())
			s.Equal(int64(0), store.LastID())
			s.Empty(store.List(requestlog.NoLimit))
		})
	}
}

func (s *StorePublicTestSuite) TestNextID() {
	store := requestlog.NewStore(1)

	s.Equal(int64(1), store.NextID())
	s.Equal(int64(2), store.NextID())
	s.Equal(int64(3), store.NextID())
	s.Equal(int64(3), store.LastID())
}

func (s *StorePublicTestSuite) TestNextIDConcurrent() {
	store := requestlog.NewStore(requestlog.DefaultCapacity)

	const workers = 16
	const perWorker = 500

	var mu sync.Mutex
	seen := make(map[int64]bool, workers*perWorker)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perWorker)
			for range perWorker {
				local = append(local, store.NextID())
			}
			mu.Lock()
			for _, id := range local {
				seen[id] = true
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Len(seen, workers*perWorker)
	for i := int64(1); i <= workers*perWorker; i++ {
		s.True(seen[i], "missing id %d", i)
	}
}

func (s *StorePublicTestSuite) TestAppendAssignsID() {
	store := requestlog.NewStore(5)

	first := store.Append(s.newEntry("/a"))
	second := store.Append(s.newEntry("/b"))

	s.Equal(int64(1), first.ID)
	s.Equal(int64(2), second.ID)

	withID := s.newEntry("/c")
	withID.ID = store.NextID()
	third := store.Append(withID)
	s.Equal(int64(3), third.ID)
}

func (s *StorePublicTestSuite) TestAppendSuppliedIDAdvancesCounter() {
	tests := []struct {
		name       string
		suppliedID int64
		wantNext   int64
	}{
		{
			name:       "when supplied id is ahead of the counter",
			suppliedID: 10,
			wantNext:   11,
		},
		{
			name:       "when supplied id was already issued",
			suppliedID: 1,
			wantNext:   2,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			store := requestlog.NewStore(5)
			store.Append(s.newEntry("/a"))

			entry := s.newEntry("/b")
			entry.ID = tt.suppliedID
			store.Append(entry)

			s.Equal(tt.wantNext, store.NextID())
			s.Equal(tt.wantNext+1, store.Append(s.newEntry("/c")).ID)
		})
	}
}

func (s *StorePublicTestSuite) TestAppendEvictsOldest() {
	store := requestlog.NewStore(requestlog.DefaultCapacity)

	for range 301 {
		store.Append(s.newEntry("/api/ping"))
	}

	entries := store.List(requestlog.NoLimit)
	s.Len(entries, 300)
	s.Equal(300, store.Len())
	s.Equal(int64(301), entries[0].ID)
	s.Equal(int64(2), entries[len(entries)-1].ID)

	for i := 1; i < len(entries); i++ {
		s.Greater(entries[i-1].ID, entries[i].ID)
	}
}

func (s *StorePublicTestSuite) TestList() {
	tests := []struct {
		name      string
		appends   int
		limit     int
		expectIDs []int64
	}{
		{
			name:      "when empty",
			appends:   0,
			limit:     requestlog.NoLimit,
			expectIDs: []int64{},
		},
		{
			name:      "when no limit",
			appends:   3,
			limit:     requestlog.NoLimit,
			expectIDs: []int64{3, 2, 1},
		},
		{
			name:      "when limit smaller than size",
			appends:   5,
			limit:     2,
			expectIDs: []int64{5, 4},
		},
		{
			name:      "when limit larger than size",
			appends:   2,
			limit:     50,
			expectIDs: []int64{2, 1},
		},
		{
			name:      "when limit zero",
			appends:   4,
			limit:     0,
			expectIDs: []int64{},
		},
		{
			name:      "when ring wrapped",
			appends:   7,
			limit:     requestlog.NoLimit,
			expectIDs: []int64{7, 6, 5, 4},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			store := requestlog.NewStore(4)
			for range tt.appends {
				store.Append(s.newEntry("/x"))
			}

			got := store.List(tt.limit)
			ids := make([]int64, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}

			s.Equal(tt.expectIDs, ids)
		})
	}
}

func (s *StorePublicTestSuite) TestListReturnsCopy() {
	store := requestlog.NewStore(3)
	store.Append(s.newEntry("/orig"))

	got := store.List(requestlog.NoLimit)
	got[0].Path = "/mutated"

	s.Equal("/orig", store.List(requestlog.NoLimit)[0].Path)
}

func (s *StorePublicTestSuite) TestAppendConcurrent() {
	store := requestlog.NewStore(50)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				store.Append(s.newEntry("/c"))
				_ = store.List(10)
			}
		}()
	}
	wg.Wait()

	entries := store.List(requestlog.NoLimit)
	s.Len(entries, 50)
	s.Equal(int64(800), entries[0].ID)
	for i := 1; i < len(entries); i++ {
		s.Equal(entries[i-1].ID-1, entries[i].ID)
	}
}

func TestStorePublicTestSuite(t *testing.T) {
	suite.Run(t, new(StorePublicTestSuite))
}
