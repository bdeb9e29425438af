// Package sale keeps the append-only record of completed sales.
package sale

import (
	"sync"
	"time"

	"github.com/fekuna/omnipos-register/internal/model"
)

// History is append-only. Sales go in and come out as deep copies, so no
// caller can alter a recorded sale.
type History struct {
	mu    sync.RWMutex
	sales []model.Sale
}

func NewHistory(sales []model.Sale) *History {
	h := &History{}
	h.Replace(sales)
	return h
}

func (h *History) Append(s model.Sale) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sales = append(h.sales, s.Clone())
}

// Replace discards the recorded history; used by pull and import.
func (h *History) Replace(sales []model.Sale) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sales = make([]model.Sale, len(sales))
	for i, s := range sales {
		h.sales[i] = s.Clone()
	}
}

func (h *History) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sales)
}

func (h *History) All() []model.Sale {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]model.Sale, len(h.sales))
	for i, s := range h.sales {
		out[i] = s.Clone()
	}
	return out
}

func (h *History) Get(id string) (model.Sale, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.sales {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return model.Sale{}, false
}

// TodayTotal sums totals of sales created on now's calendar day, compared
// as YYYY-MM-DD in now's location.
func (h *History) TodayTotal(now time.Time) float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	day := now.Format(time.DateOnly)
	var total float64
	for _, s := range h.sales {
		if s.CreatedAt.In(now.Location()).Format(time.DateOnly) == day {
			total += s.Total
		}
	}
	return total
}
