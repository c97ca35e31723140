package mailbox

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"xmail/models"
	"xmail/utils"
)

// Transport delivers a composed message
type Transport interface {
	Send(ctx context.Context, msg models.Message) error
}

// MockTransport simulates delivery with a fixed delay and a random failure rate.
// Nothing leaves the process.
type MockTransport struct {
	Delay       time.Duration
	FailureRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMockTransport creates a simulated transport
func NewMockTransport(delay time.Duration, failureRate float64) *MockTransport {
	return &MockTransport{
		Delay:       delay,
		FailureRate: failureRate,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Send waits for the configured delay and then succeeds or fails
func (t *MockTransport) Send(ctx context.Context, msg models.Message) error {
	utils.Log.WithFields(map[string]interface{}{
		"to":      recipients(msg.To),
		"subject": msg.Subject,
	}).Info("Simulating email send")

	if t.Delay > 0 {
		timer := time.NewTimer(t.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrSendFailed, ctx.Err())
		case <-timer.C:
		}
	}

	if t.roll() < t.FailureRate {
		return ErrSendFailed
	}
	return nil
}

func (t *MockTransport) roll() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rnd == nil {
		t.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return t.rnd.Float64()
}

func recipients(to []models.Contact) string {
	out := ""
	for i, c := range to {
		if i > 0 {
			out += ", "
		}
		out += c.Email
	}
	return out
}
