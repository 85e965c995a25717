package metrics

import (
	"os"
	"runtime"
)

// Health is a point-in-time snapshot of process memory and on-disk
// database size.
type Health struct {
	AllocMB       uint64 `json:"allocMb"`
	SysMB         uint64 `json:"sysMb"`
	NumGC         uint32 `json:"numGc"`
	Goroutines    int    `json:"goroutines"`
	DatabaseBytes int64  `json:"databaseBytes"`
}

// Snapshot collects real-time health data. A missing database file
// reports size zero.
func Snapshot(databasePath string) Health {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h := Health{
		AllocMB:    m.Alloc / 1024 / 1024,
		SysMB:      m.Sys / 1024 / 1024,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
	if info, err := os.Stat(databasePath); err == nil {
		h.DatabaseBytes = info.Size()
	}
	return h
}
