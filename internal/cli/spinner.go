package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames is the braille animation cycle, advanced every 80ms.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is the inline progress indicator for long-running CLI work,
// currently the Graphviz SVG render. It animates on stderr so command
// output on stdout stays clean, and stops on Stop or when the parent
// context is cancelled (Ctrl-C during a render).
type Spinner struct {
	message string
	cancel  context.CancelFunc
	halted  <-chan struct{}
	once    sync.Once
	stopped chan struct{}
}

// newSpinnerWithContext creates a spinner bound to ctx.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		cancel:  cancel,
		halted:  ctx.Done(),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation. Stop must be called afterwards, even when
// the parent context was cancelled, to wait the animation goroutine out.
func (s *Spinner) Start() {
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.halted:
			s.clearLine()
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
		}
	}
}

// Stop halts the animation, waits for the goroutine to finish, and clears
// the line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		s.clearLine()
	})
}

// clearLine only runs after the animation goroutine has quiesced, so the
// two never interleave writes.
func (s *Spinner) clearLine() {
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}
