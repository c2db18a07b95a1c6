package database

import (
	"database/sql"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StatsSource is satisfied by *sql.DB and *sqlx.DB.
type StatsSource interface {
	Stats() sql.DBStats
}

// StartStatsReporter logs connection pool statistics on the given cron
// schedule. The caller stops the returned scheduler on shutdown.
func StartStatsReporter(db StatsSource, schedule string) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		LogStats(db.Stats())
	})
	if err != nil {
		return nil, fmt.Errorf("invalid stats schedule %q: %w", schedule, err)
	}

	c.Start()
	log.Info().Str("schedule", schedule).Msg("Connection pool stats reporter started")

	return c, nil
}

// LogStats writes one pool statistics line. Waits on the pool are reported
// as warnings since they mean requests queued for a connection.
func LogStats(s sql.DBStats) {
	event := log.Debug()
	if s.WaitCount > 0 {
		event = log.Warn()
	}

	event.
		Int("open", s.OpenConnections).
		Int("in_use", s.InUse).
		Int("idle", s.Idle).
		Int("max_open", s.MaxOpenConnections).
		Int64("wait_count", s.WaitCount).
		Dur("wait_duration", s.WaitDuration).
		Msg("Connection pool stats")
}
