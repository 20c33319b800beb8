package scheduler

import "time"

func (s *Scheduler) SetMinPause(d time.Duration) {
	s.minPause = d
}
