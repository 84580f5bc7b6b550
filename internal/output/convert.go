package output

import (
	"cmp"
	"maps"
	"slices"

	"hmerize/internal/hmer"
	"hmerize/internal/primer"
	"hmerize/pkg/api"
)

// NameFunc resolves a sequential id to the name it was read under.
type NameFunc func(id uint64) string

func (f NameFunc) name(id uint64) string {
	if f == nil {
		return ""
	}
	return f(id)
}

// ToAPIHmer converts one pack element. withKmer decodes the hash back to bases.
func ToAPIHmer(p hmer.Pack, withKmer bool) api.HmerV1 {
	v := api.HmerV1{Hash: uint64(p.Hash), Size: p.Hash.Size(), First: p.First, Last: p.Last}
	if withKmer {
		v.Kmer = p.Hash.Kmer()
	}
	return v
}

// ToAPIKmers lists per-sequence results by ascending sequence id; hmers keep
// their first-seen order.
func ToAPIKmers(res map[uint64][]hmer.Pack, names NameFunc, withKmer bool) []api.KmerResultV1 {
	out := make([]api.KmerResultV1, 0, len(res))
	for _, id := range slices.Sorted(maps.Keys(res)) {
		packs := res[id]
		hs := make([]api.HmerV1, 0, len(packs))
		for _, p := range packs {
			hs = append(hs, ToAPIHmer(p, withKmer))
		}
		out = append(out, api.KmerResultV1{SequenceID: id, Name: names.name(id), Hmers: hs})
	}
	return out
}

// ToAPIPrimers lists per-target states by ascending target id, primers by
// ascending primer id.
func ToAPIPrimers(res map[uint64]map[uint64]primer.State, names, primerNames NameFunc) []api.PrimerResultV1 {
	out := make([]api.PrimerResultV1, 0, len(res))
	for _, id := range slices.Sorted(maps.Keys(res)) {
		states := slices.SortedFunc(maps.Values(res[id]), func(a, b primer.State) int {
			return cmp.Compare(a.PrimerID, b.PrimerID)
		})
		ps := make([]api.PrimerStateV1, 0, len(states))
		for _, st := range states {
			ps = append(ps, api.PrimerStateV1{
				PrimerID:   st.PrimerID,
				PrimerName: primerNames.name(st.PrimerID),
				Found:      st.Matches > 0,
				Matches:    st.Matches,
				FirstPos:   st.FirstPos,
			})
		}
		out = append(out, api.PrimerResultV1{SequenceID: id, Name: names.name(id), Primers: ps})
	}
	return out
}

// ToAPITheoretical lists a hash set in ascending hash order.
func ToAPITheoretical(set map[hmer.Hash]struct{}, sizes []int, withKmer bool) api.TheoreticalV1 {
	hs := make([]api.HmerV1, 0, len(set))
	for _, h := range slices.Sorted(maps.Keys(set)) {
		v := api.HmerV1{Hash: uint64(h), Size: h.Size()}
		if withKmer {
			v.Kmer = h.Kmer()
		}
		hs = append(hs, v)
	}
	return api.TheoreticalV1{Sizes: slices.Clone(sizes), Count: len(hs), Hashes: hs}
}

// ToAPILimits reports whether sizes are accepted and how large their
// hashes and theoretical space are.
func ToAPILimits(sizes []int) api.LimitsV1 {
	v := api.LimitsV1{Sizes: slices.Clone(sizes), HashBits: hmer.HashBits(sizes)}
	total, ok := hmer.TheoreticalTotal(sizes)
	v.Total, v.Overflow = total, !ok
	checked, err := hmer.CheckSizes(sizes)
	if err != nil {
		v.Error = err.Error()
		return v
	}
	v.Valid = true
	v.Enumerable = slices.Max(checked) <= hmer.MaxEnumerableSize
	return v
}
