package memory

import (
	"sync"
	"time"

	"github.com/omarshaarawi/powerbot/internal/analysis"
)

type Repository struct {
	report      *analysis.Report
	lastUpdated time.Time
	mu          sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) SaveReport(report *analysis.Report, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report = report
	r.lastUpdated = at
}

// GetReport returns the last saved report and when it was saved. The report
// is nil until the first save.
func (r *Repository) GetReport() (*analysis.Report, time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.report, r.lastUpdated
}

func (r *Repository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report = nil
	r.lastUpdated = time.Time{}
}
