package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "rendering...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	select {
	case <-s.stopped:
	default:
		t.Error("animation goroutine still running after Stop")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "stopping twice...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "interrupted...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("animation goroutine did not halt on parent cancellation")
	}

	// Stop after cancellation must still return cleanly.
	s.Stop()
}
