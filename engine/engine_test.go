package engine

import (
	"context"
	"testing"

	"github.com/rushteam/genomekit/core"
	"github.com/rushteam/genomekit/store"
)

func testSource() *MemorySource {
	return &MemorySource{
		Products: []core.Product{
			{ProductID: "A", Name: "Wireless Earbuds", Category: "electronics|audio",
				Description: "wireless earbuds with noise cancellation and great sound",
				Price:       50, Rating: 4.3, RatingCount: 1200},
			{ProductID: "B", Name: "Gaming Laptop", Category: "electronics|computers",
				Description: "powerful gaming laptop with great screen",
				Price:       500, Rating: 4.6, RatingCount: 340},
			{ProductID: "C", Name: "Mystery Novel", Category: "books|fiction",
				Description: "a thrilling mystery novel everyone loves",
				Price:       10, Rating: 4.1, RatingCount: 5600},
		},
		Reviews: []core.Review{
			{ReviewID: "r1", UserID: "u1", ProductID: "A", Rating: 5, Text: "great sound quality"},
			{ReviewID: "r2", UserID: "u1", ProductID: "B", Rating: 4, Text: "good laptop"},
			{ReviewID: "r3", UserID: "u2", ProductID: "A", Rating: 4, Text: "nice earbuds"},
			{ReviewID: "r4", UserID: "u2", ProductID: "C", Rating: 5, Text: "excellent story"},
		},
	}
}

func testEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Source == nil {
		opts.Source = testSource()
	}
	if opts.GenomeDim == 0 {
		opts.GenomeDim = 8
	}
	if opts.MinDF == 0 {
		opts.MinDF = 1
	}
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewRequiresSource(t *testing.T) {
	_, err := New(Options{})
	if !core.IsInvalidConfig(err) {
		t.Fatalf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestNewRejectsBadFilterExpr(t *testing.T) {
	_, err := New(Options{Source: testSource(), FilterExpr: "item.price <"})
	if err == nil {
		t.Fatal("expected compile error for malformed filter expression")
	}
}

func TestRecommendBeforeBuild(t *testing.T) {
	e := testEngine(t, Options{})
	_, err := e.Recommend(context.Background(), RecommendRequest{})
	if !core.IsArtifactMissing(err) {
		t.Fatalf("err = %v, want ARTIFACT_MISSING", err)
	}
}

func TestBuildAndRecommend(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, Options{})

	status, err := e.Build(ctx, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if status.Source != "built" {
		t.Errorf("source = %q, want built", status.Source)
	}
	if status.Products != 3 || status.Reviews != 4 {
		t.Errorf("status = %+v, want 3 products / 4 reviews", status)
	}
	if status.GenomeDim <= 0 {
		t.Errorf("genome dim = %d, want > 0", status.GenomeDim)
	}
	// 2 users x 3 items supports factorization
	if status.CollabMode != core.CollabFactorized {
		t.Errorf("collab mode = %s, want factorized", status.CollabMode)
	}
	if status.DegradedReason != "" {
		t.Errorf("degraded reason = %q, want empty", status.DegradedReason)
	}

	recs, err := e.Recommend(ctx, RecommendRequest{
		Questionnaire: core.Questionnaire{
			FavoriteCategories: []string{"electronics"},
			PriceSensitivity:   1.2,
			AvgPriceLevel:      core.PriceLevelLow,
		},
		TopK: 2,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if recs[0].ProductID == recs[1].ProductID {
		t.Errorf("duplicate recommendation %s", recs[0].ProductID)
	}
	for _, r := range recs {
		if r.Name == "" {
			t.Errorf("rec %s missing product name", r.ProductID)
		}
		if r.Compat < 0 || r.Compat > 1 {
			t.Errorf("rec %s compat = %v, out of [0,1]", r.ProductID, r.Compat)
		}
	}
}

func TestCompatFavorsMatchedCategory(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, Options{})
	if _, err := e.Build(ctx, false); err != nil {
		t.Fatalf("Build: %v", err)
	}

	recs, err := e.Recommend(ctx, RecommendRequest{
		Questionnaire: core.Questionnaire{
			FavoriteCategories: []string{"electronics"},
			PriceSensitivity:   1,
		},
		TopK: 3,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	compat := make(map[string]float64, len(recs))
	for _, r := range recs {
		compat[r.ProductID] = r.Compat
	}
	if compat["A"] <= compat["C"] || compat["B"] <= compat["C"] {
		t.Errorf("electronics should beat books on compat: A %v, B %v, C %v",
			compat["A"], compat["B"], compat["C"])
	}
}

func TestBuildIdempotence(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, Options{})

	first, err := e.Build(ctx, false)
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if first.Source != "built" {
		t.Errorf("first source = %q, want built", first.Source)
	}

	second, err := e.Build(ctx, false)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if second.Source != "cached" {
		t.Errorf("second source = %q, want cached", second.Source)
	}

	forced, err := e.Build(ctx, true)
	if err != nil {
		t.Fatalf("forced Build: %v", err)
	}
	if forced.Source != "built" {
		t.Errorf("forced source = %q, want built", forced.Source)
	}
}

func TestBuildPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	shared := store.NewMemoryStore()

	first := testEngine(t, Options{Store: shared})
	if _, err := first.Build(ctx, false); err != nil {
		t.Fatalf("Build: %v", err)
	}

	t.Run("explicit build loads persisted artifacts", func(t *testing.T) {
		second := testEngine(t, Options{Store: shared})
		status, err := second.Build(ctx, false)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if status.Source != "loaded" {
			t.Errorf("source = %q, want loaded", status.Source)
		}
	})

	t.Run("recommend lazily loads persisted artifacts", func(t *testing.T) {
		third := testEngine(t, Options{Store: shared})
		recs, err := third.Recommend(ctx, RecommendRequest{TopK: 2})
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if len(recs) != 2 {
			t.Errorf("len(recs) = %d, want 2", len(recs))
		}
	})
}

func TestRecommendFiltersCandidates(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, Options{FilterExpr: "item.price < 100.0"})
	if _, err := e.Build(ctx, false); err != nil {
		t.Fatalf("Build: %v", err)
	}

	recs, err := e.Recommend(ctx, RecommendRequest{TopK: 3})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	// B (price 500) is dropped by the keep condition
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	for _, r := range recs {
		if r.ProductID == "B" {
			t.Errorf("B should have been filtered out")
		}
	}
}

func TestRecommendValidatesParams(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, Options{})
	if _, err := e.Build(ctx, false); err != nil {
		t.Fatalf("Build: %v", err)
	}

	bad := 1.5
	neg := -0.1
	tests := []struct {
		name string
		req  RecommendRequest
	}{
		{"negative top_k", RecommendRequest{TopK: -1}},
		{"lambda above 1", RecommendRequest{MMRLambda: &bad}},
		{"negative lambda", RecommendRequest{MMRLambda: &neg}},
		{"negative weight", RecommendRequest{Weights: [3]float64{-1, 0.5, 0.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Recommend(ctx, tt.req); !core.IsInvalidConfig(err) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestRecommendDefaults(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, Options{})
	if _, err := e.Build(ctx, false); err != nil {
		t.Fatalf("Build: %v", err)
	}

	// top_k defaults to 10 and is capped by the catalog size
	recs, err := e.Recommend(ctx, RecommendRequest{})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("len(recs) = %d, want whole catalog", len(recs))
	}
}

func TestBuildRejectsInvalidSource(t *testing.T) {
	e := testEngine(t, Options{Source: &MemorySource{
		Products: []core.Product{{Name: "nameless"}},
	}})
	_, err := e.Build(context.Background(), false)
	if !core.IsDataInvalid(err) {
		t.Fatalf("err = %v, want DATA_INVALID", err)
	}
}

func TestGraphFallbackOnNoReviews(t *testing.T) {
	ctx := context.Background()
	src := testSource()
	src.Reviews = nil
	e := testEngine(t, Options{Source: src})

	status, err := e.Build(ctx, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if status.Reviews != 0 {
		t.Fatalf("reviews = %d, want 0", status.Reviews)
	}
	if status.CollabMode != core.CollabGraph {
		t.Fatalf("collab mode = %s, want graph", status.CollabMode)
	}
	if status.DegradedReason == "" {
		t.Error("degraded reason should be recorded")
	}
	if status.GenomeDim <= 0 {
		t.Errorf("genome dim = %d, want > 0 (content build is independent of ratings)", status.GenomeDim)
	}

	lam := 0.7
	recs, err := e.Recommend(ctx, RecommendRequest{
		Questionnaire: core.Questionnaire{
			FavoriteCategories: []string{"electronics"},
			PriceSensitivity:   1,
		},
		TopK:      2,
		MMRLambda: &lam,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if recs[0].ProductID == recs[1].ProductID {
		t.Errorf("duplicate recommendation %s", recs[0].ProductID)
	}
	// the empty co-occurrence graph yields a flat collaborative signal
	for _, r := range recs {
		if r.Collab != 0 {
			t.Errorf("rec %s cf = %v, want 0 with no ratings data", r.ProductID, r.Collab)
		}
	}
}

func TestGraphFallbackOnSparseReviews(t *testing.T) {
	ctx := context.Background()
	src := testSource()
	// a single reviewer cannot support factorization
	src.Reviews = []core.Review{
		{ReviewID: "r1", UserID: "u1", ProductID: "A", Rating: 5, Text: "great"},
		{ReviewID: "r2", UserID: "u1", ProductID: "B", Rating: 4, Text: "good"},
	}
	e := testEngine(t, Options{Source: src})

	status, err := e.Build(ctx, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if status.CollabMode != core.CollabGraph {
		t.Fatalf("collab mode = %s, want graph", status.CollabMode)
	}
	if status.DegradedReason == "" {
		t.Error("degraded reason should be recorded")
	}

	// queries still work against the graph fallback
	recs, err := e.Recommend(ctx, RecommendRequest{
		Questionnaire: core.Questionnaire{ExplicitFavorites: []string{"earbuds"}},
		TopK:          2,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("len(recs) = %d, want 2", len(recs))
	}
}
