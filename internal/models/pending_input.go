package models

import (
	"sync"
	"time"
)

// InputFlow identifies what the bot expects from a user's next message.
type InputFlow string

const (
	FlowAddEntry    InputFlow = "add_entry"
	FlowDeleteEntry InputFlow = "delete_entry"
	FlowEditRequest InputFlow = "edit_request"
	FlowAddAdmin    InputFlow = "add_admin"
	FlowRemoveAdmin InputFlow = "remove_admin"
)

// PendingInput is one awaited message.
type PendingInput struct {
	Flow      InputFlow
	ChatID    int64
	RequestID uint
	ExpiresAt time.Time
}

// PendingInputManager remembers, per user, which flow their next message belongs to.
type PendingInputManager struct {
	inputs map[int64]PendingInput
	ttl    time.Duration
	mu     sync.Mutex
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

// NewPendingInputManager creates a manager whose entries live for ttl.
func NewPendingInputManager(ttl time.Duration) *PendingInputManager {
	return &PendingInputManager{
		inputs: make(map[int64]PendingInput),
		ttl:    ttl,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
}

// Expect records that userID's next message belongs to input.Flow,
// replacing whatever was awaited before.
func (m *PendingInputManager) Expect(userID int64, input PendingInput) {
	m.mu.Lock()
	defer m.mu.Unlock()

	input.ExpiresAt = m.now().Add(m.ttl)
	m.inputs[userID] = input
}

// Take returns and forgets the awaited input for userID.
func (m *PendingInputManager) Take(userID int64) (PendingInput, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	input, ok := m.inputs[userID]
	if !ok {
		return PendingInput{}, false
	}
	delete(m.inputs, userID)

	if m.now().After(input.ExpiresAt) {
		return PendingInput{}, false
	}
	return input, true
}

// Cancel drops any awaited input for userID.
func (m *PendingInputManager) Cancel(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.inputs, userID)
}

// Len reports the number of tracked users, expired ones included.
func (m *PendingInputManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.inputs)
}

// StartCleanup removes expired entries every interval until Stop is called.
func (m *PendingInputManager) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.removeExpired()
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop ends the cleanup goroutine.
func (m *PendingInputManager) Stop() {
	m.once.Do(func() { close(m.stop) })
}

func (m *PendingInputManager) removeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for userID, input := range m.inputs {
		if now.After(input.ExpiresAt) {
			delete(m.inputs, userID)
		}
	}
}
