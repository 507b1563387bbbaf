package shuffle

import "testing"

func TestOrder_Deterministic(t *testing.T) {
	a := Order(42, 100)
	b := Order(42, 100)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at position %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestOrder_SeedChangesOrder(t *testing.T) {
	a := Order(42, 100)
	b := Order(43, 100)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical order")
	}
}

func TestOrder_IsPermutation(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 100} {
		order := Order(7, n)
		if len(order) != n {
			t.Fatalf("n=%d: length = %d", n, len(order))
		}
		seen := make(map[int]bool, n)
		for _, idx := range order {
			if idx < 0 || idx >= n {
				t.Fatalf("n=%d: index %d out of range", n, idx)
			}
			if seen[idx] {
				t.Fatalf("n=%d: duplicate index %d", n, idx)
			}
			seen[idx] = true
		}
	}
}
