package ai

import "testing"

func TestVectorBlobRoundTrip(t *testing.T) {
	in := []float32{0.1, -2.5, 3.75, 0}
	blob, err := FloatsToBytes(in)
	if err != nil {
		t.Fatalf("FloatsToBytes failed: %v", err)
	}
	out, err := BytesToFloats(blob)
	if err != nil {
		t.Fatalf("BytesToFloats failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("length mismatch: %d vs %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("index %d: %f != %f", i, in[i], out[i])
		}
	}
}

func TestBytesToFloatsRejectsBadLength(t *testing.T) {
	if _, err := BytesToFloats([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for non-multiple-of-4 blob")
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	if got := CosineSimilarity(a, a); got < 0.999 {
		t.Errorf("identical vectors should score ~1, got %f", got)
	}
	b := []float32{0, 1, 0}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("orthogonal vectors should score 0, got %f", got)
	}
	if got := CosineSimilarity(a, []float32{1, 2}); got != 0 {
		t.Errorf("mismatched lengths should score 0, got %f", got)
	}
}
