package genome

import (
	"math"
	"testing"
)

func TestTFIDFMinDF(t *testing.T) {
	// "shared" appears in all three docs, the others in one doc each;
	// with MinDF=2 only "shared" survives.
	docs := []string{
		"shared alpha",
		"shared beta",
		"shared gamma",
	}
	v := &TFIDF{MinDF: 2, NGramMax: 1}
	v.FitTransform(docs)
	if v.Dim() != 1 {
		t.Fatalf("Dim() = %d, want 1", v.Dim())
	}
}

func TestTFIDFNGrams(t *testing.T) {
	docs := []string{
		"wireless noise cancelling",
		"wireless noise cancelling",
		"wireless noise cancelling",
	}
	v := &TFIDF{MinDF: 3, NGramMax: 2}
	v.FitTransform(docs)
	// 3 unigrams + 2 bigrams, all with df=3
	if v.Dim() != 5 {
		t.Fatalf("Dim() = %d, want 5", v.Dim())
	}
}

func TestTFIDFSingleCharTokensDropped(t *testing.T) {
	docs := []string{"a b cd", "a b cd"}
	v := &TFIDF{MinDF: 2, NGramMax: 1}
	v.FitTransform(docs)
	if v.Dim() != 1 {
		t.Fatalf("Dim() = %d, want 1 (only %q should survive)", v.Dim(), "cd")
	}
}

func TestTFIDFMaxFeatures(t *testing.T) {
	// "common" has the highest total frequency and must survive truncation.
	docs := []string{
		"common common rare1",
		"common common rare2",
		"common common rare3",
	}
	v := &TFIDF{MinDF: 1, MaxFeatures: 1, NGramMax: 1}
	v.FitTransform(docs)
	if v.Dim() != 1 {
		t.Fatalf("Dim() = %d, want 1", v.Dim())
	}
	row := v.Transform("common")
	if row[0] == 0 {
		t.Error("truncated vocabulary should keep the highest-frequency term")
	}
}

func TestTFIDFRowsL2Normalized(t *testing.T) {
	docs := []string{
		"earbuds sound quality",
		"earbuds battery life",
		"sound battery charger",
	}
	v := &TFIDF{MinDF: 1, NGramMax: 2}
	rows := v.FitTransform(docs)
	for i, row := range rows {
		var norm float64
		for _, x := range row {
			norm += x * x
		}
		norm = math.Sqrt(norm)
		if math.Abs(norm-1) > 1e-9 {
			t.Errorf("row %d norm = %v, want 1", i, norm)
		}
	}
}

func TestTFIDFTransformUnseenTerms(t *testing.T) {
	docs := []string{"alpha beta", "alpha beta"}
	v := &TFIDF{MinDF: 2, NGramMax: 1}
	v.FitTransform(docs)

	row := v.Transform("totally unknown words")
	for i, x := range row {
		if x != 0 {
			t.Errorf("row[%d] = %v, want 0 for out-of-vocabulary doc", i, x)
		}
	}
	if len(row) != v.Dim() {
		t.Errorf("len(row) = %d, want Dim() = %d", len(row), v.Dim())
	}
}

func TestTFIDFDeterministic(t *testing.T) {
	docs := []string{
		"earbuds sound quality great",
		"laptop battery life long",
		"earbuds battery sound laptop",
	}
	a := &TFIDF{MinDF: 1, NGramMax: 2}
	rowsA := a.FitTransform(docs)
	b := &TFIDF{MinDF: 1, NGramMax: 2}
	rowsB := b.FitTransform(docs)

	if a.Dim() != b.Dim() {
		t.Fatalf("dims differ: %d vs %d", a.Dim(), b.Dim())
	}
	for i := range rowsA {
		for j := range rowsA[i] {
			if rowsA[i][j] != rowsB[i][j] {
				t.Fatalf("rows[%d][%d] differ: %v vs %v", i, j, rowsA[i][j], rowsB[i][j])
			}
		}
	}
}
