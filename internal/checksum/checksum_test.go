package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("")
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != empty {
		t.Errorf("Sum(nil) = %s", got)
	}
}

func TestSumAllBoundaries(t *testing.T) {
	a := SumAll([]byte("ab"), []byte("c"))
	b := SumAll([]byte("a"), []byte("bc"))
	if a == b {
		t.Error("part boundaries should affect the digest")
	}
	if a != SumAll([]byte("ab"), []byte("c")) {
		t.Error("SumAll is not deterministic")
	}
}
