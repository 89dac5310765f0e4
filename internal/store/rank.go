package store

import (
	"errors"
	"strings"
)

const rankAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

var (
	errRankOrder     = errors.New("rank: lower bound must sort before upper bound")
	errRankNoSpace   = errors.New("rank: no space between ranks")
	errRankCharacter = errors.New("rank: invalid character")
	errRankExhausted = errors.New("rank: unable to find unique rank")
)

func rankDigit(c byte) (int, bool) {
	i := strings.IndexByte(rankAlphabet, c)
	return i, i >= 0
}

func normRank(r string) string { return strings.ToLower(strings.TrimSpace(r)) }

// RankBetween returns a rank strictly between lo and hi. Either bound may be
// empty, meaning unbounded on that side.
//
// Ranks are lowercase base36 strings compared lexicographically; the result is
// a fractional-indexing midpoint.
func RankBetween(lo, hi string) (string, error) {
	lo, hi = normRank(lo), normRank(hi)
	if lo != "" && hi != "" && lo >= hi {
		return "", errRankOrder
	}
	inside := func(r string) bool {
		return r != "" && (lo == "" || lo < r) && (hi == "" || r < hi)
	}

	prefix := make([]byte, 0, 8)
	for i := 0; i < 256; i++ {
		dl, dh := 0, len(rankAlphabet)-1
		if i < len(lo) {
			d, ok := rankDigit(lo[i])
			if !ok {
				return "", errRankCharacter
			}
			dl = d
		}
		if i < len(hi) {
			d, ok := rankDigit(hi[i])
			if !ok {
				return "", errRankCharacter
			}
			dh = d
		}

		switch {
		case dl == dh:
			prefix = append(prefix, rankAlphabet[dl])
		case dh-dl > 1:
			r := string(append(prefix, rankAlphabet[dl+(dh-dl)/2]))
			// "y" < "y0" leaves nothing lexicographically in between.
			if !inside(r) {
				return "", errRankNoSpace
			}
			return r, nil
		default:
			// Adjacent digits: any extension of lo still sorts before hi.
			r := lo + "0"
			if !inside(r) {
				return "", errRankNoSpace
			}
			return r, nil
		}
	}
	return "", errRankNoSpace
}

func RankAfter(lo string) (string, error)  { return RankBetween(lo, "") }
func RankBefore(hi string) (string, error) { return RankBetween("", hi) }
func RankInitial() (string, error)         { return RankBetween("", "") }

// RankBetweenUnique is RankBetween that also avoids every rank in existing
// (normalized keys). Sibling ranks stay unique without touching other items.
func RankBetweenUnique(existing map[string]bool, lo, hi string) (string, error) {
	cur := normRank(lo)
	hi = normRank(hi)
	for i := 0; i < 256; i++ {
		r, err := RankBetween(cur, hi)
		if err != nil {
			return "", err
		}
		if !existing[r] {
			return r, nil
		}
		cur = r
	}
	return "", errRankExhausted
}
