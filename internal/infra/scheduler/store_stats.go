package scheduler

import (
	"context"

	"telegram-profile-bridge/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Counter is the part of the profile store the stats job reads.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// StoreStatsJob publishes the number of stored profiles to the gauge.
type StoreStatsJob struct {
	profiles Counter
	publish  func(n int)
	log      *zerolog.Logger
}

func NewStoreStatsJob(profiles Counter, logger *zerolog.Logger) *StoreStatsJob {
	return &StoreStatsJob{profiles: profiles, publish: metrics.SetProfilesStored, log: logger}
}

func (j *StoreStatsJob) Name() string { return "store_stats" }

func (j *StoreStatsJob) Run(ctx context.Context) error {
	n, err := j.profiles.Count(ctx)
	if err != nil {
		return err
	}
	j.publish(n)
	j.log.Debug().Int("profiles", n).Msg("profile store stats")
	return nil
}
