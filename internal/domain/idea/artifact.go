package idea

import (
	"time"

	"github.com/google/uuid"
)

// MaxArtifactContentChars bounds the content of a stored plan or PRD.
const MaxArtifactContentChars = 500_000

// Plan is a generated business plan. Ownership is derived from the parent idea.
type Plan struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IdeaID    uuid.UUID `gorm:"type:uuid;not null;index;column:idea_id" json:"ideaId"`
	Content   string    `gorm:"type:text;not null;column:content" json:"content"`
	IdeaName  string    `gorm:"not null;column:idea_name" json:"ideaName"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Plan) TableName() string { return "plan" }

// PRD is a generated product requirements document; same shape as Plan,
// stored separately.
type PRD struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IdeaID    uuid.UUID `gorm:"type:uuid;not null;index;column:idea_id" json:"ideaId"`
	Content   string    `gorm:"type:text;not null;column:content" json:"content"`
	IdeaName  string    `gorm:"not null;column:idea_name" json:"ideaName"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (PRD) TableName() string { return "prd" }
