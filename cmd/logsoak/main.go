// logsoak opens many concurrent log-stream connections against a server and
// reports line throughput. Used to size the log broadcaster before pointing
// real dashboards at it.
package main

import (
	"context"
	"flag"
	"log"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"relaydash/internal/api"
	"relaydash/internal/logstream"
)

// Config
var (
	host = flag.String("host", "http://localhost:8000", "Server base URL")

	// Load control
	numConns = flag.Int("conns", 50, "Concurrent log-stream connections")
	duration = flag.Duration("duration", 60*time.Second, "How long to hold the streams open")
	ramp     = flag.Duration("ramp", 20*time.Millisecond, "Delay between connection launches")
	delay    = flag.Duration("delay", 5*time.Second, "Reconnect delay per stream")
)

// Stats Collection
type Stats struct {
	Lines  uint64
	Retry  uint64
	MaxLen int64 // Bytes
}

var globalStats Stats

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	client := api.New(*host, 15*time.Second, zerolog.Nop())
	streamURL := client.StreamURL("/ws/logs")

	go runReporter()

	log.Printf("Launching %d streams against %s...", *numConns, streamURL)
	tailers := make([]*logstream.Tailer, 0, *numConns)
	for i := 0; i < *numConns; i++ {
		t := &logstream.Tailer{
			URL:         streamURL,
			Delay:       *delay,
			DialTimeout: 10 * time.Second,
			Log:         zerolog.Nop(),
			Append:      recordLine,
		}
		tailers = append(tailers, t)
		t.Start(context.Background())
		time.Sleep(*ramp)
	}

	time.Sleep(*duration)

	log.Println("Draining streams...")
	for _, t := range tailers {
		t.Stop()
	}
	log.Println("Done.")
}

func recordLine(line string) {
	if line == logstream.RetryNotice {
		atomic.AddUint64(&globalStats.Retry, 1)
		return
	}
	atomic.AddUint64(&globalStats.Lines, 1)

	n := int64(len(line))
	for {
		currMax := atomic.LoadInt64(&globalStats.MaxLen)
		if n <= currMax {
			break
		}
		if atomic.CompareAndSwapInt64(&globalStats.MaxLen, currMax, n) {
			break
		}
	}
}

func runReporter() {
	ticker := time.NewTicker(1 * time.Second)
	for range ticker.C {
		lines := atomic.SwapUint64(&globalStats.Lines, 0)
		retry := atomic.SwapUint64(&globalStats.Retry, 0)
		maxLen := atomic.SwapInt64(&globalStats.MaxLen, 0)

		log.Printf("STATS [1s]: Lines: %d | Retries: %d | Max line: %dB", lines, retry, maxLen)
	}
}
