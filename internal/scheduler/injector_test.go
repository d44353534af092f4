package scheduler

import (
	"sync"
	"testing"
)

func TestInjector_FIFO(t *testing.T) {
	in := newInjector()
	if in.Pop() != nil {
		t.Fatal("expected nil from empty injector")
	}

	for i := int64(1); i <= 5; i++ {
		in.Push(testJob(i))
	}
	if in.Len() != 5 {
		t.Fatalf("expected length 5, got %d", in.Len())
	}

	for want := int64(1); want <= 5; want++ {
		j := in.Pop()
		if j == nil || j.id != want {
			t.Fatalf("expected job %d, got %v", want, j)
		}
	}
	if in.Len() != 0 {
		t.Errorf("expected empty injector, got %d", in.Len())
	}
}

func TestInjector_ConcurrentProducers(t *testing.T) {
	in := newInjector()
	var wg sync.WaitGroup

	for p := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				in.Push(testJob(int64(p*100 + i)))
			}
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for j := in.Pop(); j != nil; j = in.Pop() {
		if seen[j.id] {
			t.Fatalf("job %d popped twice", j.id)
		}
		seen[j.id] = true
	}
	if len(seen) != 800 {
		t.Fatalf("expected 800 jobs, got %d", len(seen))
	}
}
