// Package progress draws a single-line progress bar for long scans.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// IsTerminalFunc is the function used to check if a file descriptor is a terminal.
// It can be overridden for testing.
var IsTerminalFunc = term.IsTerminal

// minInterval rate-limits redraws to 10 per second.
const minInterval = 100 * time.Millisecond

const barWidth = 30

// Counter displays "[=====>    ]  42% (12/28 dependencies) ETA: 0:03" on
// output, redrawing the same line. Update is safe for concurrent use.
type Counter struct {
	mu        sync.Mutex
	output    io.Writer
	label     string
	startTime time.Time
	lastPrint time.Time
	drawn     bool
	now       func() time.Time
}

// NewCounter creates a counter that writes to output, describing items
// with label (e.g. "dependencies").
func NewCounter(output io.Writer, label string) *Counter {
	return &Counter{
		output:    output,
		label:     label,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// Update records that done of total items are finished. The final update
// (done == total) is always drawn; intermediate ones are rate-limited.
func (c *Counter) Update(done, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if done < total && now.Sub(c.lastPrint) < minInterval {
		return
	}
	c.lastPrint = now
	c.drawn = true

	line := c.render(done, total, now.Sub(c.startTime).Seconds())
	// Pad with spaces to clear any remaining characters from previous line
	if len(line) < 80 {
		line += strings.Repeat(" ", 80-len(line))
	}
	_, _ = fmt.Fprint(c.output, "\r"+line)
}

// Finish clears the progress line if anything was drawn.
func (c *Counter) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.drawn {
		return
	}
	fmt.Fprintf(c.output, "\r%s\r", strings.Repeat(" ", 80))
	c.drawn = false
}

func (c *Counter) render(done, total int, elapsed float64) string {
	if total <= 0 {
		return fmt.Sprintf("   %d %s", done, c.label)
	}

	percent := float64(done) / float64(total) * 100
	if percent > 100 {
		percent = 100
	}

	filled := min(int(percent/100*barWidth), barWidth)
	bar := strings.Repeat("=", filled)
	if filled < barWidth {
		bar += ">" + strings.Repeat(" ", barWidth-filled-1)
	}

	eta := "--:--"
	if done > 0 && elapsed > 0 {
		rate := float64(done) / elapsed
		eta = formatDuration(float64(total-done) / rate)
	}

	return fmt.Sprintf("   [%s] %3.0f%% (%d/%d %s) ETA: %s", bar, percent, done, total, c.label, eta)
}

// formatDuration formats seconds into MM:SS or HH:MM:SS format
func formatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, (s%3600)/60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// ShouldShowProgress returns true if progress should be displayed.
// Progress goes to stderr, so it is shown when stderr is a terminal.
func ShouldShowProgress() bool {
	return IsTerminalFunc(int(os.Stderr.Fd()))
}
