package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/korjavin/whatsforlunch/pkg/logger"
)

const checkInterval = 1 * time.Minute

// Suggester posts a lunch suggestion to a chat
type Suggester interface {
	SendSuggestion(ctx context.Context, chatID int64)
}

// Service provides the daily lunch reminder
type Service struct {
	suggester Suggester
	chatID    int64
	hour      int
	logger    *logger.Logger
	now       func() time.Time

	mu         sync.Mutex
	lastPosted string
	stopChan   chan struct{}
	stopOnce   sync.Once
	done       sync.WaitGroup
}

// New creates a new scheduler service posting to chatID at the given hour
func New(suggester Suggester, chatID int64, hour int) *Service {
	return &Service{
		suggester: suggester,
		chatID:    chatID,
		hour:      hour,
		logger:    logger.New("scheduler"),
		now:       time.Now,
		stopChan:  make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Service) Start(ctx context.Context) {
	s.logger.Info("Starting lunch scheduler for chat %d at %02d:00", s.chatID, s.hour)

	s.done.Add(1)
	go s.runDailyLunchScheduler(ctx)
}

// Stop stops the scheduler and waits for the loop to exit
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping lunch scheduler")
		close(s.stopChan)
	})
	s.done.Wait()
}

func (s *Service) runDailyLunchScheduler(ctx context.Context) {
	defer s.done.Done()

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.check(ctx)
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		}
	}
}

// check posts the suggestion if it is lunch hour and nothing was posted today.
// It reports whether a suggestion was sent.
func (s *Service) check(ctx context.Context) bool {
	now := s.now()
	if now.Hour() != s.hour {
		return false
	}

	today := now.Format("2006-01-02")
	s.mu.Lock()
	if s.lastPosted == today {
		s.mu.Unlock()
		return false
	}
	s.lastPosted = today
	s.mu.Unlock()

	s.logger.Info("It's lunch time, posting suggestion to chat %d", s.chatID)
	s.suggester.SendSuggestion(ctx, s.chatID)
	return true
}
