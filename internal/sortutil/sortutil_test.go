package sortutil

import "testing"

func TestSortedCopiesInput(t *testing.T) {
	in := []string{"zeta", "acme", "mid"}
	got := Sorted(in)
	if got[0] != "acme" || got[1] != "mid" || got[2] != "zeta" {
		t.Fatalf("Sorted = %v", got)
	}
	if in[0] != "zeta" {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestSortedKeys(t *testing.T) {
	set := map[string]struct{}{"0731": {}, "0513": {}, "0601": {}}
	got := SortedKeys(set)
	if len(got) != 3 || got[0] != "0513" || got[2] != "0731" {
		t.Fatalf("SortedKeys = %v", got)
	}
}
