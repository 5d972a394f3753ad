package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AssetType classifies an uploaded file by its media kind.
type AssetType string

const (
	AssetTypeImage    AssetType = "image"
	AssetTypeVideo    AssetType = "video"
	AssetTypeDocument AssetType = "document"
)

// UsageContext classifies where on the landing an asset is meant to be used.
type UsageContext string

const (
	UsageContextHero     UsageContext = "hero"
	UsageContextLogo     UsageContext = "logo"
	UsageContextGallery  UsageContext = "gallery"
	UsageContextAbout    UsageContext = "about"
	UsageContextTeam     UsageContext = "team"
	UsageContextProjects UsageContext = "projects"
	UsageContextFavicon  UsageContext = "favicon"
	UsageContextGeneral  UsageContext = "general"
)

var usageContexts = map[UsageContext]bool{
	UsageContextHero:     true,
	UsageContextLogo:     true,
	UsageContextGallery:  true,
	UsageContextAbout:    true,
	UsageContextTeam:     true,
	UsageContextProjects: true,
	UsageContextFavicon:  true,
	UsageContextGeneral:  true,
}

// Valid reports whether u is one of the enumerated usage contexts.
func (u UsageContext) Valid() bool {
	return usageContexts[u]
}

// SizeClass identifies an optimized variant of an image asset.
type SizeClass string

const (
	SizeClassThumbnail SizeClass = "thumbnail"
	SizeClassSmall     SizeClass = "small"
	SizeClassMedium    SizeClass = "medium"
	SizeClassLarge     SizeClass = "large"
)

// SizeClasses lists the variant sizes generated for image assets.
var SizeClasses = []SizeClass{SizeClassThumbnail, SizeClassSmall, SizeClassMedium, SizeClassLarge}

// documentMimeTypes are the non-image, non-video mime types accepted for
// upload, mirroring the upload constraints (pdf, doc, docx).
var documentMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// ClassifyMime maps a mime type onto an asset type. The second return value
// is false for mime types outside the accepted set.
func ClassifyMime(mimeType string) (AssetType, bool) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return AssetTypeImage, true
	case strings.HasPrefix(mimeType, "video/"):
		return AssetTypeVideo, true
	case documentMimeTypes[mimeType]:
		return AssetTypeDocument, true
	default:
		return "", false
	}
}

// Asset is the metadata record for an uploaded media or document file. The
// byte transfer itself happens in object storage before the record is
// created; the engine never sees file contents.
type Asset struct {
	ID            uuid.UUID            `json:"id" db:"id"`
	LandingID     uuid.UUID            `json:"landing_id" db:"landing_id"`
	Filename      string               `json:"filename" db:"filename"`
	AssetType     AssetType            `json:"asset_type" db:"asset_type"`
	UsageContext  UsageContext         `json:"usage_context" db:"usage_context"`
	SizeBytes     int64                `json:"size_bytes" db:"size_bytes"`
	SizeHuman     string               `json:"size_human" db:"size_human"`
	ObjectKey     string               `json:"object_key" db:"object_key"`
	PublicURL     string               `json:"public_url" db:"public_url"`
	OptimizedURLs map[SizeClass]string `json:"optimized_urls,omitempty" db:"optimized_urls"`
	Metadata      map[string]string    `json:"metadata" db:"metadata"`
	CreatedAt     time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" db:"updated_at"`
}

// ResolvedURL returns the optimized URL for the given size class when the
// asset is an image and that variant exists, otherwise the public URL.
func (a *Asset) ResolvedURL(size SizeClass) string {
	if a.AssetType == AssetTypeImage {
		if url, ok := a.OptimizedURLs[size]; ok && url != "" {
			return url
		}
	}
	return a.PublicURL
}

// AssetFilter holds filter criteria for asset listing.
type AssetFilter struct {
	AssetType    *AssetType    `json:"asset_type,omitempty"`
	UsageContext *UsageContext `json:"usage_context,omitempty"`
	Filename     string        `json:"filename,omitempty"` // case-insensitive substring
}
