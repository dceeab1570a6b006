// Package notify は本テーブルの変更をWebSocket購読者へ知らせる。
package notify

import "sync"

// Hub は「変更があった」という合図だけを配る。
// 購読者ごとに未配達の合図は最大1つ。新しい変更は古い未配達の合図に重なる。
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

type Subscription struct {
	C   chan struct{}
	hub *Hub
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{C: make(chan struct{}, 1), hub: h}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// 購読をやめる。何度呼んでもよい。
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	delete(s.hub.subs, s)
	s.hub.mu.Unlock()
}

// Publish はブロックしない
func (h *Hub) Publish() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs {
		select {
		case s.C <- struct{}{}:
		default:
			// 既に合図が溜まっている
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
