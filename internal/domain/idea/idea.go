package idea

import (
	"time"

	"github.com/google/uuid"
)

// Idea is a named concept that anchors zero or more generated documents.
// (UserID, LocalID, Keyword) is the natural key used when a client saves a
// document against an idea it only knows by its batch-local id.
type Idea struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  string    `gorm:"not null;column:user_id;uniqueIndex:ux_idea_owner_local_keyword,priority:1;index:idx_idea_user_created,priority:1" json:"-"`
	LocalID int64     `gorm:"not null;column:local_id;uniqueIndex:ux_idea_owner_local_keyword,priority:2" json:"localId"`
	Keyword string    `gorm:"not null;default:'';column:keyword;uniqueIndex:ux_idea_owner_local_keyword,priority:3" json:"keyword,omitempty"`
	Name    string    `gorm:"not null;column:name" json:"name"`
	Preset  string    `gorm:"not null;default:'';column:preset" json:"preset,omitempty"`

	Plans []*Plan `gorm:"foreignKey:IdeaID;constraint:OnDelete:CASCADE" json:"plans"`
	PRDs  []*PRD  `gorm:"foreignKey:IdeaID;constraint:OnDelete:CASCADE" json:"prds"`

	CreatedAt time.Time `gorm:"not null;index:idx_idea_user_created,priority:2,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Idea) TableName() string { return "idea" }
