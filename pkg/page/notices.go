package page

import (
	"sync"

	"github.com/goliatone/go-settingspage/pkg/model"
)

// Notices is a request-scoped queue of admin messages.
type Notices struct {
	mu    sync.Mutex
	items []model.Notice
}

// Add queues a notice. An empty type defaults to NoticeError.
func (n *Notices) Add(setting, code, message, noticeType string) {
	if noticeType == "" {
		noticeType = model.NoticeError
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, model.Notice{
		Setting: setting,
		Code:    code,
		Message: message,
		Type:    noticeType,
	})
}

// For returns the queued notices for setting in queue order. An empty setting
// returns all of them.
func (n *Notices) For(setting string) []model.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []model.Notice
	for _, notice := range n.items {
		if setting == "" || notice.Setting == setting {
			out = append(out, notice)
		}
	}
	return out
}
