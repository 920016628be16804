// Package metrics exposes operational metrics of treebase in the Prometheus
// text format.
package metrics

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/safing/treebase/info"
	"github.com/safing/treebase/log"
)

// Operation results.
const (
	ResultOK       = "ok"
	ResultConflict = "conflict"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

var (
	set = vm.NewSet()

	openConnections atomic.Int64
)

func init() {
	buildInfo := info.GetInfo()
	set.NewGauge(fmt.Sprintf(
		`treebase_info{version=%q,commit=%q,go_version=%q}`,
		checkUnknown(buildInfo.Version),
		checkUnknown(buildInfo.Commit),
		buildInfo.GoVersion,
	), func() float64 {
		return 1
	})

	set.NewGauge("treebase_connections", func() float64 {
		return float64(openConnections.Load())
	})

	registerLogMetrics()
}

func registerLogMetrics() {
	for level, fetch := range map[string]func() uint64{
		"warning":  log.TotalWarningLogLines,
		"error":    log.TotalErrorLogLines,
		"critical": log.TotalCriticalLogLines,
		"dropped":  log.TotalDroppedLogLines,
	} {
		fetch := fetch
		set.NewGauge(fmt.Sprintf(`treebase_log_lines_total{level=%q}`, level), func() float64 {
			return float64(fetch())
		})
	}
}

func checkUnknown(s string) string {
	if strings.Contains(s, "unknown") {
		return "unknown"
	}
	return s
}

// ObserveOperation records the result and duration of an accessor operation.
func ObserveOperation(op, result string, started time.Time) {
	set.GetOrCreateCounter(fmt.Sprintf(`treebase_accessor_ops_total{op=%q,result=%q}`, op, result)).Inc()
	set.GetOrCreateHistogram(fmt.Sprintf(`treebase_accessor_op_duration_seconds{op=%q}`, op)).UpdateDuration(started)
}

// ConnectionOpened records an opened connection.
func ConnectionOpened() {
	openConnections.Add(1)
}

// ConnectionClosed records a closed connection.
func ConnectionClosed() {
	openConnections.Add(-1)
}

// OpenConnections returns the number of open connections.
func OpenConnections() int64 {
	return openConnections.Load()
}

// WritePrometheus writes all metrics, including the metrics of the Go
// runtime and the process, to w.
func WritePrometheus(w io.Writer) {
	set.WritePrometheus(w)
	vm.WriteProcessMetrics(w)
}
