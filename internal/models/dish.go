package models

import (
	"strings"
	"time"
)

type Dish struct {
	ID                 int64        `json:"id"`
	Name               string       `json:"name"`
	Description        string       `json:"description,omitempty"`
	Price              float64      `json:"price"`
	Category           DishCategory `json:"category"`
	CookingTimeMinutes int          `json:"cooking_time_minutes"`
	IsAvailable        bool         `json:"is_available"`
	Tags               string       `json:"tags,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// GetTags splits the comma-separated tag string into trimmed, non-empty
// tags.
func (d *Dish) GetTags() []string {
	if d.Tags == "" {
		return nil
	}

	var tags []string
	for _, t := range strings.Split(d.Tags, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SetTags replaces the tag list.
func (d *Dish) SetTags(tags []string) {
	trimmed := make([]string, 0, len(tags))
	for _, t := range tags {
		trimmed = append(trimmed, strings.TrimSpace(t))
	}
	d.Tags = strings.Join(trimmed, ",")
}

// AddTag appends a tag unless it is already present (case-insensitive).
func (d *Dish) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}

	current := d.GetTags()
	for _, t := range current {
		if strings.EqualFold(t, tag) {
			return
		}
	}
	d.SetTags(append(current, tag))
}

// RemoveTag deletes a tag, matching case-insensitively.
func (d *Dish) RemoveTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}

	var kept []string
	for _, t := range d.GetTags() {
		if !strings.EqualFold(t, tag) {
			kept = append(kept, t)
		}
	}
	d.SetTags(kept)
}
