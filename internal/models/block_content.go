package models

import (
	"github.com/google/uuid"
)

// BlockContent is the type-dependent content payload of a block. The shape
// varies by block type; each type has a default template and a minimal
// required-field set, both indexed by type below.
type BlockContent map[string]interface{}

// defaultTemplates is the static, type-indexed table of starting content for
// newly created blocks. Templates are copied on access, never mutated.
var defaultTemplates = map[BlockType]BlockContent{
	BlockTypeHero: {
		"title":            "",
		"subtitle":         "",
		"description":      "",
		"button_text":      "",
		"button_url":       "",
		"background_image": "",
		"text_color":       "#ffffff",
		"background_color": "#1a1a2e",
	},
	BlockTypeAbout: {
		"title":       "",
		"description": "",
		"image":       "",
	},
	BlockTypeServices: {
		"title":    "",
		"subtitle": "",
		"items":    []interface{}{},
	},
	BlockTypeProjects: {
		"title":    "",
		"subtitle": "",
		"items":    []interface{}{},
	},
	BlockTypeTeam: {
		"title":    "",
		"subtitle": "",
		"members":  []interface{}{},
	},
	BlockTypeContacts: {
		"title":     "",
		"phone":     "",
		"email":     "",
		"address":   "",
		"map_embed": "",
	},
	BlockTypeTestimonials: {
		"title": "",
		"items": []interface{}{},
	},
	BlockTypeGallery: {
		"title":  "",
		"images": []interface{}{},
	},
	BlockTypeNews: {
		"title": "",
		"items": []interface{}{},
	},
	BlockTypeCustom: {
		"html": "",
	},
}

// requiredContentFields is the per-type minimal required-field set checked on
// every content write.
var requiredContentFields = map[BlockType][]string{
	BlockTypeHero:         {"title"},
	BlockTypeAbout:        {"title"},
	BlockTypeServices:     {"title"},
	BlockTypeProjects:     {"title"},
	BlockTypeTeam:         {"title"},
	BlockTypeContacts:     {"title"},
	BlockTypeTestimonials: {"title"},
	BlockTypeGallery:      {"title"},
	BlockTypeNews:         {"title"},
	BlockTypeCustom:       {"html"},
}

// DefaultTemplate returns a copy of the starting content for the given block
// type. The second return value is false for unknown types.
func DefaultTemplate(t BlockType) (BlockContent, bool) {
	template, ok := defaultTemplates[t]
	if !ok {
		return nil, false
	}
	return template.Copy(), true
}

// DefaultTemplates returns the full template mapping so callers can seed new
// blocks without type-specific knowledge.
func DefaultTemplates() map[BlockType]BlockContent {
	out := make(map[BlockType]BlockContent, len(defaultTemplates))
	for t, template := range defaultTemplates {
		out[t] = template.Copy()
	}
	return out
}

// MissingContentFields returns the required fields of the given type that are
// absent from content. An empty result means the content passes the shape
// check.
func MissingContentFields(t BlockType, content BlockContent) []string {
	var missing []string
	for _, field := range requiredContentFields[t] {
		if _, ok := content[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

// Copy returns a top-level copy of the content map.
func (c BlockContent) Copy() BlockContent {
	out := make(BlockContent, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge returns a new content map with patch values shallow-merged over c.
func (c BlockContent) Merge(patch BlockContent) BlockContent {
	out := c.Copy()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// AssetRefs collects asset identifiers referenced by the content. A string
// value (or string element of a list value) that parses as a UUID is treated
// as an asset reference.
func (c BlockContent) AssetRefs() []uuid.UUID {
	var refs []uuid.UUID
	for _, v := range c {
		switch value := v.(type) {
		case string:
			if id, err := uuid.Parse(value); err == nil {
				refs = append(refs, id)
			}
		case []interface{}:
			for _, item := range value {
				if s, ok := item.(string); ok {
					if id, err := uuid.Parse(s); err == nil {
						refs = append(refs, id)
					}
				}
			}
		}
	}
	return refs
}
