package ws

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/spoorthylakshmi/wellnest/internal/session"
)

// Health is the body of GET /api/health.
type Health struct {
	Status         string  `json:"status"`
	UptimeSeconds  float64 `json:"uptimeSeconds"`
	Goroutines     int     `json:"goroutines"`
	Sessions       int     `json:"sessions"`
	ActiveSessions int     `json:"activeSessions"`
	Clients        int     `json:"clients"`
	RSSBytes       uint64  `json:"rssBytes,omitempty"`
	CPUPercent     float64 `json:"cpuPercent,omitempty"`
}

type HealthReporter struct {
	store       *session.Store
	broadcaster *Broadcaster
	started     time.Time
	proc        *process.Process
}

func NewHealthReporter(store *session.Store, broadcaster *Broadcaster) *HealthReporter {
	h := &HealthReporter{store: store, broadcaster: broadcaster, started: time.Now()}
	// Process stats are best effort; the report omits them when unavailable.
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		h.proc = p
	}
	return h
}

func (h *HealthReporter) Report() Health {
	out := Health{
		Status:         "ok",
		UptimeSeconds:  time.Since(h.started).Seconds(),
		Goroutines:     runtime.NumGoroutine(),
		Sessions:       h.store.Len(),
		ActiveSessions: h.store.ActiveCount(),
	}
	if h.broadcaster != nil {
		out.Clients = h.broadcaster.ClientCount()
	}
	if h.proc != nil {
		if mem, err := h.proc.MemoryInfo(); err == nil {
			out.RSSBytes = mem.RSS
		}
		if cpu, err := h.proc.CPUPercent(); err == nil {
			out.CPUPercent = cpu
		}
	}
	return out
}
