package bot

import (
	"sync/atomic"
	"time"
)

// Telegram clears a chat action after about five seconds.
const typingRefresh = 4 * time.Second

// typingIndicator repeats the typing action while the engine has any turn in
// flight. A superseded turn finishing early does not stop it.
type typingIndicator struct {
	active  atomic.Bool
	every   time.Duration
	loading func() bool
	send    func()
}

func (t *typingIndicator) start() {
	if !t.active.CompareAndSwap(false, true) {
		return
	}
	go t.run()
}

func (t *typingIndicator) run() {
	ticker := time.NewTicker(t.every)
	defer ticker.Stop()

	for {
		t.send()
		<-ticker.C
		if t.loading() {
			continue
		}
		t.active.Store(false)
		// A turn may have started between the check and the store.
		if t.loading() && t.active.CompareAndSwap(false, true) {
			continue
		}
		return
	}
}
