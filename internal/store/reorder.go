package store

import (
	"errors"
	"sort"
	"strings"

	"arbor-cli/internal/model"
)

// RankPlan is the set of rank updates that realize one index-based move.
// RankByID only holds items whose rank changes.
type RankPlan struct {
	RankByID  map[string]string
	Rebalance []string // ids re-ranked by the window fallback, in final order
}

// sortItemsByRank orders siblings by rank, then creation time, then id.
// Items without a rank sort after ranked ones.
func sortItemsByRank(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool { return lessByRank(items[i], items[j]) })
}

func lessByRank(a, b model.Item) bool {
	ra, rb := normRank(a.Rank), normRank(b.Rank)
	if (ra == "") != (rb == "") {
		return ra != ""
	}
	if ra != rb {
		return ra < rb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// PlanRanks plans rank updates so that moved ends up at insertAt within
// sibs. sibs is the destination sibling set in any order and must contain
// moved. insertAt counts positions after moved has been taken out.
//
// Only the moved item is re-ranked when its new neighbors leave room.
// Otherwise the smallest window around the insertion point whose outer
// bounds are strictly increasing is re-ranked.
func PlanRanks(sibs []model.Item, movedID string, insertAt int) (RankPlan, error) {
	movedID = strings.TrimSpace(movedID)
	if movedID == "" {
		return RankPlan{}, errors.New("plan ranks: missing moved id")
	}

	cur := append([]model.Item(nil), sibs...)
	sortItemsByRank(cur)

	from := -1
	for i := range cur {
		if cur[i].ID == movedID {
			from = i
			break
		}
	}
	if from < 0 {
		return RankPlan{}, errors.New("plan ranks: moved item not in sibling set")
	}
	moved := cur[from]
	rest := append(append([]model.Item(nil), cur[:from]...), cur[from+1:]...)

	insertAt = max(0, min(insertAt, len(rest)))
	plan := RankPlan{RankByID: map[string]string{}}
	// An item arriving from another parent may carry a rank a sibling already uses.
	if r := normRank(moved.Rank); insertAt == from && r != "" && !ranksExcluding(rest, nil)[r] {
		return plan, nil
	}

	final := make([]model.Item, 0, len(cur))
	final = append(final, rest[:insertAt]...)
	final = append(final, moved)
	final = append(final, rest[insertAt:]...)

	bound := func(i int) string {
		if i < 0 || i >= len(final) {
			return ""
		}
		return normRank(final[i].Rank)
	}
	usable := func(lo, hi string) bool { return lo == "" || hi == "" || lo < hi }

	existing := ranksExcluding(final, map[string]bool{movedID: true})
	if lo, hi := bound(insertAt-1), bound(insertAt+1); usable(lo, hi) {
		if r, err := RankBetweenUnique(existing, lo, hi); err == nil {
			if normRank(moved.Rank) != r {
				plan.RankByID[movedID] = r
			}
			return plan, nil
		}
	}

	// Moving up prefers re-ranking the displaced neighbors below it.
	lo, hi := rebalanceWindow(final, insertAt, insertAt < from, func(lo, hi int) bool {
		lower, upper := bound(lo-1), bound(hi+1)
		if !usable(lower, upper) {
			return false
		}
		_, err := RankBetween(lower, upper)
		return err == nil
	})

	skip := map[string]bool{}
	for i := lo; i <= hi; i++ {
		skip[final[i].ID] = true
	}
	existing = ranksExcluding(final, skip)

	lower, upper := bound(lo-1), bound(hi+1)
	for i := lo; i <= hi; i++ {
		r, err := RankBetweenUnique(existing, lower, upper)
		if err != nil {
			return RankPlan{}, err
		}
		existing[r] = true
		plan.RankByID[final[i].ID] = r
		plan.Rebalance = append(plan.Rebalance, final[i].ID)
		lower = r
	}
	return plan, nil
}

func ranksExcluding(items []model.Item, skip map[string]bool) map[string]bool {
	out := map[string]bool{}
	for _, it := range items {
		if skip[it.ID] {
			continue
		}
		if r := normRank(it.Rank); r != "" {
			out[r] = true
		}
	}
	return out
}

// rebalanceWindow returns the smallest [lo, hi] containing at for which
// valid holds. Among equal sizes, preferRight picks windows extending past at
// before windows extending before it.
func rebalanceWindow(final []model.Item, at int, preferRight bool, valid func(lo, hi int) bool) (int, int) {
	n := len(final)
	for size := 1; size <= n; size++ {
		first := max(0, at-(size-1))
		last := min(at, n-size)
		if preferRight {
			for lo := last; lo >= first; lo-- {
				if valid(lo, lo+size-1) {
					return lo, lo + size - 1
				}
			}
		} else {
			for lo := first; lo <= last; lo++ {
				if valid(lo, lo+size-1) {
					return lo, lo + size - 1
				}
			}
		}
	}
	return 0, n - 1
}
