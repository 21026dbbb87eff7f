// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"slices"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"scripts-cli/pkg/platform"
)

const (
	// maxSuggestions caps the "did you mean" list.
	maxSuggestions = 3

	// maxSuggestDistance is the largest edit distance still considered a typo.
	maxSuggestDistance = 2
)

// Names returns the distinct script names of entries in manifest order.
// When several kinds share a name, the first occurrence fixes its position.
func Names(entries []Entry) []string {
	seen := make(map[string]bool, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		names = append(names, e.Name)
	}
	return names
}

// Resolve finds the entry whose name equals name exactly. When the manifest
// carries the same name in several kinds, the kind native to goos wins.
// Windows device names such as "nul" never resolve on Windows.
func Resolve(entries []Entry, name, goos string) (Entry, bool) {
	if platform.IsWindows(goos) && platform.IsWindowsReservedName(name) {
		return Entry{}, false
	}

	var candidates []Entry
	for _, e := range entries {
		if e.Name == name {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return Entry{}, false
	}

	order := KindPreference(goos)
	slices.SortStableFunc(candidates, func(a, b Entry) int {
		return slices.Index(order, a.Kind) - slices.Index(order, b.Kind)
	})
	return candidates[0], true
}

// KindPreference returns the kinds in the order they are preferred on goos.
func KindPreference(goos string) []Kind {
	if platform.IsWindows(goos) {
		return []Kind{KindPowerShell, KindNushell, KindShell}
	}
	return []Kind{KindShell, KindNushell, KindPowerShell}
}

// Suggest returns up to three manifest names close to name, for use in
// "did you mean" hints. Subsequence matches rank before plain typos.
func Suggest(entries []Entry, name string) []string {
	names := Names(entries)

	ranks := fuzzy.RankFindFold(name, names)
	sort.Sort(ranks)

	var out []string
	for _, r := range ranks {
		if r.Target != name {
			out = append(out, r.Target)
		}
	}

	type scored struct {
		name     string
		distance int
	}
	var typos []scored
	for _, n := range names {
		if n == name || slices.Contains(out, n) {
			continue
		}
		if d := fuzzy.LevenshteinDistance(name, n); d <= maxSuggestDistance {
			typos = append(typos, scored{name: n, distance: d})
		}
	}
	sort.SliceStable(typos, func(i, j int) bool { return typos[i].distance < typos[j].distance })
	for _, t := range typos {
		out = append(out, t.name)
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
