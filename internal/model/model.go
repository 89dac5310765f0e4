package model

import "time"

type Item struct {
	ID string `json:"id" yaml:"id"`

	ParentID *string `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Rank     string  `json:"rank,omitempty" yaml:"rank,omitempty"`

	Label    string `json:"label" yaml:"label"`
	Disabled bool   `json:"disabled" yaml:"disabled"`

	// Locked items cannot be dragged. Their children can still be reordered.
	Locked bool `json:"locked,omitempty" yaml:"locked,omitempty"`

	// Leaf items never accept children (make-child drops are rejected).
	Leaf bool `json:"leaf,omitempty" yaml:"leaf,omitempty"`

	// ReadOnlyLabel disables inline label editing for this item.
	ReadOnlyLabel bool `json:"readOnlyLabel,omitempty" yaml:"readOnlyLabel,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Parent returns the parent id, or "" for root items.
func (it Item) Parent() string {
	if it.ParentID == nil {
		return ""
	}
	return *it.ParentID
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
