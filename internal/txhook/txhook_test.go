package txhook_test

import (
	"context"
	"sync"
	"testing"

	"github.com/chroniclehq/chronicle/internal/txhook"
)

func TestOnCommitWithoutTransaction(t *testing.T) {
	if txhook.OnCommit(context.Background(), func(context.Context) {}) {
		t.Error("OnCommit registered a hook with no ambient transaction")
	}
}

func TestFlushRunsHooksInOrder(t *testing.T) {
	hooks := txhook.New()
	ctx := txhook.With(context.Background(), hooks)

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		if !txhook.OnCommit(ctx, func(context.Context) { order = append(order, i) }) {
			t.Fatal("OnCommit did not find the ambient buffer")
		}
	}

	hooks.Flush(context.Background())

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("hooks ran as %v, want [1 2 3]", order)
	}
}

func TestFlushClearsBuffer(t *testing.T) {
	hooks := txhook.New()
	ran := 0
	hooks.Add(func(context.Context) { ran++ })

	hooks.Flush(context.Background())
	hooks.Flush(context.Background())

	if ran != 1 {
		t.Errorf("hook ran %d times, want 1", ran)
	}
}

func TestUnflushedHooksNeverRun(t *testing.T) {
	hooks := txhook.New()
	ctx := txhook.With(context.Background(), hooks)

	ran := false
	txhook.OnCommit(ctx, func(context.Context) { ran = true })

	// Simulating rollback: the buffer is simply dropped.
	if ran {
		t.Error("hook ran without a flush")
	}
}

func TestConcurrentRegistration(t *testing.T) {
	hooks := txhook.New()
	ctx := txhook.With(context.Background(), hooks)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ran := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			txhook.OnCommit(ctx, func(context.Context) {
				mu.Lock()
				ran++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	hooks.Flush(context.Background())

	if ran != 50 {
		t.Errorf("%d hooks ran, want 50", ran)
	}
}
