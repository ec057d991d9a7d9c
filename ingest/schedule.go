package ingest

import (
	"context"
	"time"
)

// RunEvery runs RunAll on a fixed interval until ctx is cancelled. The
// first run happens immediately so a freshly deployed service catches
// up without waiting a week. Errors are logged inside RunAll and do
// not stop the schedule.
func (s *Service) RunEvery(ctx context.Context, interval time.Duration) {
	s.log.Info("scheduler started", "interval", interval.String())

	if _, err := s.RunAll(ctx, false); err != nil {
		s.log.Error("scheduled run failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.RunAll(ctx, false); err != nil {
				s.log.Error("scheduled run failed", "error", err)
			}
		}
	}
}
