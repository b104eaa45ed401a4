package service

import (
	"sync"
	"time"

	"tasktracker/internal/modules/pomodoro/domain"
	"tasktracker/internal/platform/clock"
)

// CycleService owns the single Cycle. Each method reads the clock once under
// mu so a call observes one instant.
type CycleService struct {
	mu    sync.Mutex
	clock clock.Clock
	cycle domain.Cycle
}

func NewCycleService(clk clock.Clock, work, rest time.Duration) *CycleService {
	return &CycleService{clock: clk, cycle: domain.NewCycle(work, rest, clk.Now())}
}

func (s *CycleService) Configure(work, rest time.Duration) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	if err := s.cycle.Configure(work, rest, now); err != nil {
		return domain.Snapshot{}, err
	}
	return s.cycle.Peek(now), nil
}

func (s *CycleService) Start() domain.Snapshot {
	return s.mutate(func(c *domain.Cycle, now time.Time) { c.Start(now) })
}

func (s *CycleService) Pause() domain.Snapshot {
	return s.mutate(func(c *domain.Cycle, now time.Time) { c.Pause(now) })
}

func (s *CycleService) Reset() domain.Snapshot {
	return s.mutate(func(c *domain.Cycle, now time.Time) { c.Reset(now) })
}

func (s *CycleService) SetFocus(on bool) domain.Snapshot {
	return s.mutate(func(c *domain.Cycle, now time.Time) { c.SetFocus(on, now) })
}

func (s *CycleService) SwitchTo(phase domain.Phase) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	if err := s.cycle.SwitchTo(phase, now); err != nil {
		return domain.Snapshot{}, err
	}
	return s.cycle.Peek(now), nil
}

func (s *CycleService) Tick() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycle.Tick(s.clock.Now())
}

func (s *CycleService) Peek() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycle.Peek(s.clock.Now())
}

func (s *CycleService) Statistics() domain.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycle.Statistics()
}

func (s *CycleService) mutate(fn func(c *domain.Cycle, now time.Time)) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	fn(&s.cycle, now)
	return s.cycle.Peek(now)
}
