package todo

import (
	"fmt"
	"testing"
)

func benchStore(b *testing.B, n int) *Store {
	b.Helper()
	s := NewStore()
	for i := 0; i < n; i++ {
		task, err := s.Add(fmt.Sprintf("Task %d", i), "benchmark task", i%4 == 0)
		if err != nil {
			b.Fatalf("Add failed: %v", err)
		}
		if i%3 == 0 && !task.IsDraft() {
			if _, err := s.ToggleCompleted(task.ID); err != nil {
				b.Fatalf("ToggleCompleted failed: %v", err)
			}
		}
	}
	return s
}

// BenchmarkDecode benchmarks validating decode of a 100-task store.
func BenchmarkDecode(b *testing.B) {
	data, err := Encode(benchStore(b, 100))
	if err != nil {
		b.Fatalf("Encode failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(data); err != nil {
			b.Fatalf("Decode failed: %v", err)
		}
	}
}

// BenchmarkEncode benchmarks encoding a 100-task store.
func BenchmarkEncode(b *testing.B) {
	s := benchStore(b, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(s); err != nil {
			b.Fatalf("Encode failed: %v", err)
		}
	}
}

// BenchmarkListSavedPending benchmarks the pending filter over 1000 tasks.
func BenchmarkListSavedPending(b *testing.B) {
	s := benchStore(b, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.ListSaved(FilterPending)
	}
}

// BenchmarkResolvePrefix benchmarks prefix resolution over 1000 tasks.
func BenchmarkResolvePrefix(b *testing.B) {
	s := benchStore(b, 1000)
	ref := s.Saved[len(s.Saved)-1].ID

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Resolve(ref); err != nil {
			b.Fatalf("Resolve failed: %v", err)
		}
	}
}
