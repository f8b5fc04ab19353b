package preview

import (
	"testing"
	"time"

	"github.com/jmylchreest/blinkr/internal/loop"
)

func TestSession_ControlsDoNotBlockOnBusyExecutor(t *testing.T) {
	sched := loop.NewRealtime()
	defer sched.Close()
	s := &session{sched: sched, post: sched.TryPost}

	// Nothing drains the queue, as when the executor is stuck in send.
	for sched.TryPost(func() {}) {
	}

	returned := make(chan struct{})
	go func() {
		s.TogglePause()
		s.BlinkNow()
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("controls blocked on a full executor queue")
	}
}
