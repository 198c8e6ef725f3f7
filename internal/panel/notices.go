package panel

import (
	"sync"
	"time"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

// DefaultNoticeTTL is how long a notice stays visible
const DefaultNoticeTTL = 6 * time.Second

const maxNotices = 16

// Notices is a bounded queue of transient messages
type Notices struct {
	mu    sync.Mutex
	items []models.Notice
	ttl   time.Duration
	now   func() time.Time
}

// NewNotices creates a queue whose notices expire after ttl
func NewNotices(ttl time.Duration) *Notices {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Notices{ttl: ttl, now: time.Now}
}

// Push adds a notice and returns it. The oldest notice is dropped when full.
func (n *Notices) Push(level, message string) models.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	notice := models.Notice{Level: level, Message: message, ExpiresAt: n.now().Add(n.ttl)}
	n.items = append(n.items, notice)
	if len(n.items) > maxNotices {
		n.items = n.items[len(n.items)-maxNotices:]
	}
	return notice
}

// Active returns unexpired notices, oldest first, and forgets expired ones
func (n *Notices) Active() []models.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	kept := n.items[:0]
	for _, item := range n.items {
		if now.Before(item.ExpiresAt) {
			kept = append(kept, item)
		}
	}
	n.items = kept
	return append([]models.Notice(nil), kept...)
}
