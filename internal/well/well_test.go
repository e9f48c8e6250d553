package well

import (
	"sync"
	"testing"
	"time"
)

func intLess(a, b int) bool { return a < b }

func TestPopYieldsMinimum(t *testing.T) {
	w := New[int](10, intLess)
	for _, v := range []int{5, 1, 9, 3, 7} {
		if !w.Push(v) {
			t.Fatalf("push %d rejected", v)
		}
	}
	want := []int{1, 3, 5, 7, 9}
	for _, exp := range want {
		got, ok := w.Pop()
		if !ok || got != exp {
			t.Fatalf("Pop() = (%d, %v), want %d", got, ok, exp)
		}
	}
}

func TestPushRejectsAtCapacity(t *testing.T) {
	w := New[int](2, intLess)
	if !w.Push(1) || !w.Push(2) {
		t.Fatalf("expected both pushes to succeed")
	}
	if w.Push(3) {
		t.Fatalf("expected push at capacity to be rejected")
	}
	if w.Len() != 2 {
		t.Fatalf("expected len 2, got %d", w.Len())
	}
}

func TestPeekDoesNotRemove(t *testing.T) {
	w := New[int](2, intLess)
	w.Push(5)
	v, ok := w.Peek()
	if !ok || v != 5 {
		t.Fatalf("Peek() = (%d, %v), want (5, true)", v, ok)
	}
	if w.Len() != 1 {
		t.Fatalf("Peek should not remove; len=%d", w.Len())
	}
}

func TestPushBlockingUnblocksOnPop(t *testing.T) {
	w := New[int](1, intLess)
	w.Push(1)

	done := make(chan struct{})
	go func() {
		w.PushBlocking(2)
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("PushBlocking returned before capacity freed")
	case <-time.After(50 * time.Millisecond):
	}

	w.PopBlocking()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("PushBlocking never unblocked after pop")
	}
}

func TestPopBlockingUnblocksOnPush(t *testing.T) {
	w := New[int](2, intLess)
	result := make(chan int, 1)
	go func() { result <- w.PopBlocking() }()

	select {
	case <-result:
		t.Fatalf("PopBlocking returned before any push")
	case <-time.After(50 * time.Millisecond):
	}

	w.PushBlocking(7)
	select {
	case v := <-result:
		if v != 7 {
			t.Fatalf("expected 7, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatalf("PopBlocking never unblocked after push")
	}
}

func TestConcurrentEnqueueThenDequeueIsMonotonic(t *testing.T) {
	w := New[int](1000, intLess)
	var wg sync.WaitGroup
	for i := 0; i < 500; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.PushBlocking(i)
		}()
	}
	wg.Wait()

	last := -1
	for w.Len() > 0 {
		v := w.PopBlocking()
		if v < last {
			t.Fatalf("dequeue order violated: %d after %d", v, last)
		}
		last = v
	}
}
