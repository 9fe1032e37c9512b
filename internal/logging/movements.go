package logging

import (
	"fmt"
	"sync/atomic"

	"robot-controller/internal/config"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	avgLineBytes = 80
	bitsPerByte  = 10 // 8N1 framing
)

// Movements logs individual motion steps when debug_movements_enabled is set.
// Output is throttled so movement chatter uses at most half of the serial line.
type Movements struct {
	enabled bool
	limiter *rate.Limiter
	log     *logrus.Entry
	dropped atomic.Int64
}

// NewMovements creates a movement logger writing to logger.
func NewMovements(cfg *config.Config, logger *logrus.Logger) *Movements {
	perSecond := float64(cfg.SerialBaudRate()) / bitsPerByte / avgLineBytes / 2
	if perSecond < 1 {
		perSecond = 1
	}
	burst := int(perSecond)
	return &Movements{
		enabled: cfg.DebugMovementsEnabled(),
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		log:     logger.WithField("component", "movements"),
	}
}

// Logf records one movement. It returns false when the entry was
// suppressed, either because movement logging is off or the line is saturated.
func (m *Movements) Logf(format string, args ...any) bool {
	if !m.enabled {
		return false
	}
	if !m.limiter.Allow() {
		m.dropped.Add(1)
		return false
	}
	msg := fmt.Sprintf(format, args...)
	if n := m.dropped.Swap(0); n > 0 {
		msg = fmt.Sprintf("%s (%d earlier movement logs suppressed)", msg, n)
	}
	m.log.Info(msg)
	return true
}

// Dropped returns how many entries were suppressed since the last one written.
func (m *Movements) Dropped() int64 {
	return m.dropped.Load()
}
