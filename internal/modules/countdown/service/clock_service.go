package service

import (
	"sync"
	"time"

	"tasktracker/internal/modules/countdown/domain"
	"tasktracker/internal/platform/clock"
)

type Settings struct {
	LowTime time.Duration
	Grace   time.Duration
}

// ClockService owns the process-wide SessionState. Every read and write
// goes through mu.
type ClockService struct {
	mu       sync.Mutex
	clock    clock.Clock
	settings Settings
	state    domain.SessionState
}

func NewClockService(clk clock.Clock, settings Settings) *ClockService {
	if settings.LowTime <= 0 {
		settings.LowTime = domain.DefaultLowTime
	}
	if settings.Grace < 0 {
		settings.Grace = domain.DefaultGrace
	}
	return &ClockService{
		clock:    clk,
		settings: settings,
		state:    domain.NewSessionState(clk.Now()),
	}
}

// SetDeadline validates value before touching state.
func (s *ClockService) SetDeadline(value string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	deadline, err := domain.ResolveDeadline(value, now, s.settings.Grace)
	if err != nil {
		return time.Time{}, err
	}
	s.state.SetDeadline(deadline, now)
	return deadline, nil
}

func (s *ClockService) ResetDeadline() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ResetDeadline()
}

func (s *ClockService) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Touch(s.clock.Now())
}

func (s *ClockService) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RemainingSeconds(s.clock.Now())
}

func (s *ClockService) Spent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SpentSeconds(s.clock.Now())
}

// Snapshot reads state, remaining, spent and the classification at a single
// instant so the values agree with each other.
func (s *ClockService) Snapshot() (domain.SessionState, int, int, domain.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	remaining := s.state.RemainingSeconds(now)
	return s.state, remaining, s.state.SpentSeconds(now), domain.Classify(remaining, s.settings.LowTime)
}

func (s *ClockService) Menu() []domain.Option {
	return domain.Menu(s.clock.Now())
}
