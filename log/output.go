package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	outputWriter     io.Writer = os.Stdout
	outputWriterLock sync.Mutex
	outputColor      = true
)

// SetOutput sets the writer that log lines are written to and whether they
// should be colored.
func SetOutput(w io.Writer, useColor bool) {
	outputWriterLock.Lock()
	defer outputWriterLock.Unlock()

	outputWriter = w
	outputColor = useColor
}

func writeLine(line *logLine, duplicates uint64) {
	outputWriterLock.Lock()
	defer outputWriterLock.Unlock()

	fmt.Fprintln(outputWriter, formatLine(line, duplicates, outputColor))
}

func startWriter() {
	shutdownWaitGroup.Add(1)
	go writer()
}

func writer() {
	defer shutdownWaitGroup.Done()

	var (
		lastLine   *logLine
		duplicates uint64
	)

	flush := func() {
		if lastLine != nil {
			writeLine(lastLine, duplicates)
			lastLine = nil
			duplicates = 0
		}
	}

	for {
		// wait until logs need to be processed
		select {
		case <-logsWaiting:
			logsWaitingFlag.UnSet()
		case <-forceEmptyingOfBuffer:
		case <-time.After(100 * time.Millisecond):
		case <-shutdownSignal:
			// write remaining lines
		drainLoop:
			for {
				select {
				case line := <-logBuffer:
					if lastLine != nil && line.Equal(lastLine) {
						duplicates++
						continue
					}
					flush()
					lastLine = line
				default:
					break drainLoop
				}
			}
			flush()
			writeLine(&logLine{
				msg:       "===== LOGGING STOPPED =====",
				level:     WarningLevel,
				timestamp: time.Now(),
			}, 0)
			return
		}

		// write all the logs!
	writeLoop:
		for {
			select {
			case line := <-logBuffer:
				// merge duplicates
				if lastLine != nil && line.Equal(lastLine) {
					duplicates++
					continue
				}
				flush()
				lastLine = line
			case <-forceEmptyingOfBuffer:
			default:
				flush()
				break writeLoop
			}
		}
	}
}
