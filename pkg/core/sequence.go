package core

import "sort"

// Sequence produces the presentation order for a set of annotations drawn
// from any number of documents: recently created annotations always surface
// first, while annotations without a timestamp are mixed in, in small
// deterministic batches, instead of being dumped at the end grouped by
// document.
//
// The order is reproducible for a fixed annotation set: timed entries sort
// by recency (stable on ties), untimed entries are permuted by a shuffle
// seeded from their own ids, and the two lists are interleaved one timed
// entry to every two untimed ones.
func Sequence(entries []Entry) []Entry {
	var timed, untimed []Entry
	for _, e := range entries {
		if e.Annotation.Timed() {
			timed = append(timed, e)
		} else {
			untimed = append(untimed, e)
		}
	}

	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].Annotation.CreatedAt > timed[j].Annotation.CreatedAt
	})
	shuffleDeterministic(untimed)

	out := make([]Entry, 0, len(entries))
	ti, ui := 0, 0
	for ti < len(timed) || ui < len(untimed) {
		if ti < len(timed) {
			out = append(out, timed[ti])
			ti++
		}
		for k := 0; k < 2 && ui < len(untimed); k++ {
			out = append(out, untimed[ui])
			ui++
		}
	}
	return out
}

// shuffleDeterministic applies a Fisher-Yates shuffle driven by per-entry
// hashes instead of a random source. At step i (iterating from the end) the
// swap index is abs(hash of the entry at slot i) mod (i+1); hashes travel
// with their entries across swaps. Changing the hash or the shuffle changes
// the observable order, so both are fixed.
func shuffleDeterministic(entries []Entry) {
	hashes := make([]int64, len(entries))
	for i, e := range entries {
		hashes[i] = int64(hash32(e.Annotation.ID + e.Document))
	}
	for i := len(entries) - 1; i > 0; i-- {
		h := hashes[i]
		if h < 0 {
			h = -h
		}
		j := int(h % int64(i+1))
		entries[i], entries[j] = entries[j], entries[i]
		hashes[i], hashes[j] = hashes[j], hashes[i]
	}
}

// hash32 is a polynomial rolling hash (factor 31), each step wrapped to
// signed 32 bits.
func hash32(s string) int32 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return h
}
