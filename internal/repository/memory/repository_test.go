package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/omarshaarawi/powerbot/internal/analysis"
)

func TestRepository_SaveAndGet(t *testing.T) {
	repo := NewRepository()

	report, at := repo.GetReport()
	assert.Nil(t, report)
	assert.True(t, at.IsZero())

	now := time.Date(2025, 10, 7, 8, 0, 0, 0, time.UTC)
	saved := &analysis.Report{Superflex: true}
	repo.SaveReport(saved, now)

	report, at = repo.GetReport()
	assert.Same(t, saved, report)
	assert.Equal(t, now, at)

	repo.Clear()
	report, _ = repo.GetReport()
	assert.Nil(t, report)
}

func TestRepository_ConcurrentAccess(t *testing.T) {
	repo := NewRepository()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			repo.SaveReport(&analysis.Report{}, time.Now())
		}()
		go func() {
			defer wg.Done()
			repo.GetReport()
		}()
	}
	wg.Wait()

	report, _ := repo.GetReport()
	assert.NotNil(t, report)
}
