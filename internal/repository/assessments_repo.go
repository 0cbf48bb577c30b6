package repository

import (
	"context"

	"wisefido-wellness/internal/domain"
)

// AssessmentsRepository 评估记录 Repository 接口（只插入，不更新）
type AssessmentsRepository interface {
	// InsertAssessment 单行插入，评分与风险随记录一起原子写入
	InsertAssessment(ctx context.Context, a *domain.Assessment) error

	// GetLatestAssessment 最近一次评估，不存在时返回 nil, nil
	GetLatestAssessment(ctx context.Context, userID string) (*domain.Assessment, error)

	// ListAssessments 历史记录（按时间倒序，分页）
	ListAssessments(ctx context.Context, userID string, page, size int) ([]*domain.Assessment, int, error)
}

func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 200 {
		size = 200
	}
	return page, size
}
