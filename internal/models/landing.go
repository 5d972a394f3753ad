package models

import (
	"time"

	"github.com/google/uuid"
)

// LandingStatus represents the publishing state of a landing.
type LandingStatus string

const (
	LandingStatusDraft     LandingStatus = "draft"
	LandingStatusPublished LandingStatus = "published"
)

// Landing is the public marketing page owned by a holding. Each holding owns
// at most one landing; the domain is a globally unique subdomain slug and is
// immutable once the landing has been published.
type Landing struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	HoldingID   uuid.UUID     `json:"holding_id" db:"holding_id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Domain      string        `json:"domain" db:"domain"`
	Template    string        `json:"template" db:"template"`
	Status      LandingStatus `json:"status" db:"status"`
	PublishedAt *time.Time    `json:"published_at" db:"published_at"`
	PreviewURL  string        `json:"preview_url" db:"preview_url"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// IsPublished returns true if the landing has gone live.
func (l *Landing) IsPublished() bool {
	return l.Status == LandingStatusPublished
}

// LandingSettingsPatch carries a partial update of landing-level metadata.
// Nil fields are left unchanged.
type LandingSettingsPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Domain      *string `json:"domain,omitempty"`
	Template    *string `json:"template,omitempty"`
}

// SnapshotBlock is the publicly renderable projection of a block: asset
// references inside the content are already resolved to URLs.
type SnapshotBlock struct {
	ID           uuid.UUID     `json:"id"`
	Type         BlockType     `json:"type"`
	Title        string        `json:"title"`
	Content      BlockContent  `json:"content"`
	Settings     BlockSettings `json:"settings"`
	SortPosition int           `json:"sort_position"`
}

// PublicSnapshot is the read-only projection served to the rendering layer.
// It only ever contains blocks that are both active and published.
type PublicSnapshot struct {
	LandingID   uuid.UUID        `json:"landing_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Domain      string           `json:"domain"`
	Template    string           `json:"template"`
	Blocks      []*SnapshotBlock `json:"blocks"`
	GeneratedAt time.Time        `json:"generated_at"`
}
