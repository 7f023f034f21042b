package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/daleyoon76/saas-idea-generator/internal/domain"
)

func SeedIdea(tb testing.TB, ctx context.Context, tx *gorm.DB, userID string, localID int64, name, keyword string) *types.Idea {
	tb.Helper()
	i := &types.Idea{
		ID:      uuid.New(),
		UserID:  userID,
		LocalID: localID,
		Name:    name,
		Keyword: keyword,
	}
	if err := tx.WithContext(ctx).Create(i).Error; err != nil {
		tb.Fatalf("seed idea: %v", err)
	}
	return i
}

func SeedPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, ideaID uuid.UUID, content string) *types.Plan {
	tb.Helper()
	p := &types.Plan{
		ID:       uuid.New(),
		IdeaID:   ideaID,
		Content:  content,
		IdeaName: "idea",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed plan: %v", err)
	}
	return p
}

func SeedPRD(tb testing.TB, ctx context.Context, tx *gorm.DB, ideaID uuid.UUID, content string) *types.PRD {
	tb.Helper()
	p := &types.PRD{
		ID:       uuid.New(),
		IdeaID:   ideaID,
		Content:  content,
		IdeaName: "idea",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed prd: %v", err)
	}
	return p
}

// Lookup loads the row with id, or returns nil when it is gone.
func Lookup[T any](tb testing.TB, ctx context.Context, tx *gorm.DB, id uuid.UUID) *T {
	tb.Helper()
	var rows []*T
	if err := tx.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		tb.Fatalf("lookup: %v", err)
	}
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

func LongString(n int) string { return strings.Repeat("a", n) }
