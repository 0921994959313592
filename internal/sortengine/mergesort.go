package sortengine

// sortRecords performs a stable top-down mergesort of recs in place,
// ordered by cmp. A straight sort.Slice is not used because it is not
// guaranteed stable, and stability (falling back to source order for equal
// keys) is part of sort's documented --stable/--unique behavior as well as
// the implicit tie-break Comparator.Compare applies via srcIndex.
func sortRecords(recs []*Record, cmp *Comparator) {
	if len(recs) < 2 {
		return
	}
	scratch := make([]*Record, len(recs))
	mergeSortInto(recs, scratch, cmp)
}

func mergeSortInto(recs, scratch []*Record, cmp *Comparator) {
	n := len(recs)
	if n < 2 {
		return
	}
	mid := n / 2
	mergeSortInto(recs[:mid], scratch[:mid], cmp)
	mergeSortInto(recs[mid:], scratch[mid:], cmp)

	copy(scratch, recs)
	i, j, k := 0, mid, 0
	for i < mid && j < n {
		if cmp.Compare(scratch[i], scratch[j]) <= 0 {
			recs[k] = scratch[i]
			i++
		} else {
			recs[k] = scratch[j]
			j++
		}
		k++
	}
	for i < mid {
		recs[k] = scratch[i]
		i++
		k++
	}
	for j < n {
		recs[k] = scratch[j]
		j++
		k++
	}
}

// dedupInPlace removes records that compare equal to their immediate
// predecessor under cmp (the --unique semantics: after a full ordering,
// the surviving representative is the first in sorted order), returning the
// shortened slice.
func dedupInPlace(recs []*Record, cmp *Comparator) []*Record {
	if len(recs) < 2 {
		return recs
	}
	out := recs[:1]
	for i := 1; i < len(recs); i++ {
		if cmp.CompareNoTiebreak(recs[i], out[len(out)-1]) != 0 {
			out = append(out, recs[i])
		}
	}
	return out
}
