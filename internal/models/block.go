package models

import (
	"time"

	"github.com/google/uuid"
)

// BlockType enumerates the kinds of content blocks a landing can contain.
type BlockType string

const (
	BlockTypeHero         BlockType = "hero"
	BlockTypeAbout        BlockType = "about"
	BlockTypeServices     BlockType = "services"
	BlockTypeProjects     BlockType = "projects"
	BlockTypeTeam         BlockType = "team"
	BlockTypeContacts     BlockType = "contacts"
	BlockTypeTestimonials BlockType = "testimonials"
	BlockTypeGallery      BlockType = "gallery"
	BlockTypeNews         BlockType = "news"
	BlockTypeCustom       BlockType = "custom"
)

// protectedBlockTypes are block types that cannot be removed from a landing.
var protectedBlockTypes = map[BlockType]bool{
	BlockTypeHero: true,
}

// Valid reports whether t is one of the enumerated block types.
func (t BlockType) Valid() bool {
	_, ok := defaultTemplates[t]
	return ok
}

// Deletable reports whether blocks of this type may be removed. It is a pure
// function of the type so the flag cannot drift per instance.
func (t BlockType) Deletable() bool {
	return !protectedBlockTypes[t]
}

// BlockStatus represents the publishing state of a single block.
type BlockStatus string

const (
	BlockStatusDraft     BlockStatus = "draft"
	BlockStatusPublished BlockStatus = "published"
)

// BlockSettings holds type-independent display options.
type BlockSettings struct {
	Animation string `json:"animation"`
	Padding   string `json:"padding"`
	TextAlign string `json:"text_align"`
}

// Block is one ordered, typed, independently publishable content unit within
// a landing. Sort positions are dense and unique per landing, starting at 1.
type Block struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	LandingID    uuid.UUID     `json:"landing_id" db:"landing_id"`
	Type         BlockType     `json:"type" db:"block_type"`
	Title        string        `json:"title" db:"title"`
	Content      BlockContent  `json:"content" db:"content"`
	Settings     BlockSettings `json:"settings" db:"settings"`
	SortPosition int           `json:"sort_position" db:"sort_position"`
	Status       BlockStatus   `json:"status" db:"status"`
	IsActive     bool          `json:"is_active" db:"is_active"`
	PublishedAt  *time.Time    `json:"published_at" db:"published_at"`
	Deletable    bool          `json:"deletable" db:"-"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// IsPublished returns true if the block is in published status.
func (b *Block) IsPublished() bool {
	return b.Status == BlockStatusPublished
}

// BlockFilter holds filter criteria for block listing.
type BlockFilter struct {
	Status *BlockStatus `json:"status,omitempty"`
	Type   *BlockType   `json:"type,omitempty"`
	Active *bool        `json:"active,omitempty"`
}

// BlockPosition is one entry of a reorder plan: the persisted sort position
// a block should move to.
type BlockPosition struct {
	BlockID      uuid.UUID `json:"block_id"`
	SortPosition int       `json:"sort_position"`
}
