package store

import (
	"strings"

	"github.com/google/uuid"
)

const idPrefix = "item-"

// NextID returns an unused item id. Ids are short and user-facing; the
// suffix grows only when short ones collide.
func (db *DB) NextID() string {
	for n := 6; ; n += 2 {
		for i := 0; i < 20; i++ {
			hex := strings.ReplaceAll(uuid.NewString(), "-", "")
			if n > len(hex) {
				n = len(hex)
			}
			id := idPrefix + hex[:n]
			if _, ok := db.FindItem(id); !ok {
				return id
			}
		}
	}
}
