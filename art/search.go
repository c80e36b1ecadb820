package art

// searchKeys looks up k in an ascending, densely-packed key array (used
// by node16's child lookup) and reports whether it is present.
//
// spec.md leaves the N4/N16 child-lookup algorithm unspecified beyond
// "linear scan is acceptable at N4 and likely optimal at N16", noting
// that a branchless/SIMD scan is an optional enhancement with no
// observable-contract difference. This module keeps the teacher's
// portable linear-scan path (its build-tag-gated search_generic.go)
// and drops its avo-generated AVX assembly variant: no SPEC_FULL
// component exercises hand-written amd64 assembly, and the scan below
// is not on any hot path a 6-byte-keyed, at-most-16-wide array would
// need vectorized.
func searchKeys(k byte, keys []byte) (int, bool) {
	for i, b := range keys {
		if b == k {
			return i, true
		}
	}
	return 0, false
}
