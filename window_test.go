package settle

import (
	"testing"
	"time"
)

func TestWindow_JoinTracksLatestValue(t *testing.T) {
	var w window[string]
	now := time.Now()

	w.join("a", now, make(chan bool, 1))
	w.join("b", now.Add(time.Millisecond), make(chan bool, 1))

	if w.target != "b" {
		t.Errorf("expected target b, got %q", w.target)
	}
	if len(w.waiters) != 2 {
		t.Errorf("expected 2 waiters, got %d", len(w.waiters))
	}
	if !w.scheduledAt.Equal(now.Add(time.Millisecond)) {
		t.Error("expected scheduledAt from latest join")
	}
}

func TestWindow_SettleOnce(t *testing.T) {
	var w window[string]
	a := make(chan bool, 1)
	b := make(chan bool, 1)
	w.join("a", time.Now(), a)
	w.join("b", time.Now(), b)

	waiters := w.settle()
	if len(waiters) != 2 {
		t.Fatalf("expected 2 waiters, got %d", len(waiters))
	}
	if again := w.settle(); again != nil {
		t.Error("expected second settle to return nil")
	}

	release(waiters, true)
	if !<-a || !<-b {
		t.Error("expected both waiters released with true")
	}
}
