package repository

import (
	"context"
	"sort"
	"sync"

	"wisefido-wellness/internal/domain"
)

// MemoryAssessmentsRepository DB 未启用或不可用时使用（进程重启后丢失）
type MemoryAssessmentsRepository struct {
	mu    sync.RWMutex
	items map[string][]domain.Assessment // userID -> assessments
}

func NewMemoryAssessmentsRepository() *MemoryAssessmentsRepository {
	return &MemoryAssessmentsRepository{items: map[string][]domain.Assessment{}}
}

var _ AssessmentsRepository = (*MemoryAssessmentsRepository)(nil)

func (r *MemoryAssessmentsRepository) InsertAssessment(_ context.Context, a *domain.Assessment) error {
	if a == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	if a.Record.BMI != nil {
		bmi := *a.Record.BMI
		cp.Record.BMI = &bmi
	}
	cp.Persisted = true
	r.items[a.UserID] = append(r.items[a.UserID], cp)
	return nil
}

func (r *MemoryAssessmentsRepository) GetLatestAssessment(_ context.Context, userID string) (*domain.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sorted := r.sortedLocked(userID)
	if len(sorted) == 0 {
		return nil, nil
	}
	return &sorted[0], nil
}

func (r *MemoryAssessmentsRepository) ListAssessments(_ context.Context, userID string, page, size int) ([]*domain.Assessment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := r.sortedLocked(userID)
	total := len(sorted)
	page, size = normalizePage(page, size)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	out := make([]*domain.Assessment, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, &sorted[i])
	}
	return out, total, nil
}

// sortedLocked 返回副本，按创建时间倒序；同一时间按插入顺序倒序
func (r *MemoryAssessmentsRepository) sortedLocked(userID string) []domain.Assessment {
	src := r.items[userID]
	out := make([]domain.Assessment, len(src))
	for i := range src {
		out[len(src)-1-i] = src[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
