package store

import (
	"context"
	"testing"

	"github.com/rushteam/genomekit/core"
)

func TestMemoryStoreBasicOps(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get(missing) err = %v, want not-found", err)
	}

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v; want v", got, err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get after delete err = %v, want not-found", err)
	}
}

func TestMemoryStoreBatchOps(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.BatchSet(ctx, map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	})
	if err != nil {
		t.Fatalf("BatchSet: %v", err)
	}

	got, err := s.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet: %v", err)
	}
	// missing keys are skipped, not errors
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Fatalf("BatchGet = %v", got)
	}
}

func buildSnapshot() *core.Snapshot {
	snap := &core.Snapshot{
		Products: []core.Product{
			{ProductID: "p1", Name: "Earbuds", Category: "electronics", Price: 49.9},
			{ProductID: "p2", Name: "Novel", Category: "books", Price: 9.9},
		},
		Reviews: []core.Review{
			{ReviewID: "r1", UserID: "u1", ProductID: "p1", Rating: 5, Text: "great", Sentiment: 0.5},
		},
		Genome: map[string][]float64{
			"p1": {0.1, 0.2},
			"p2": {0.3, 0.4},
		},
		Dim: 2,
		Collab: core.CollabResult{
			Mode:       core.CollabFactorized,
			ItemScores: map[string]float64{"p1": 4.5, "p2": 3.2},
			Graph:      core.PMIGraph{"p1": {"p2": 0.69}},
			ItemCounts: map[string]int{"p1": 1, "p2": 1},
			UserCount:  1,
		},
	}
	return snap.Seal()
}

func TestSnapshotRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	orig := buildSnapshot()

	if err := SaveSnapshot(ctx, s, orig); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	loaded, err := LoadSnapshot(ctx, s)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if len(loaded.Products) != 2 || len(loaded.Reviews) != 1 {
		t.Fatalf("tables = %d products / %d reviews, want 2/1",
			len(loaded.Products), len(loaded.Reviews))
	}
	if loaded.Dim != 2 {
		t.Errorf("Dim = %d, want 2", loaded.Dim)
	}
	for id, vec := range orig.Genome {
		got := loaded.Vector(id)
		if len(got) != len(vec) {
			t.Fatalf("vector %s length = %d, want %d", id, len(got), len(vec))
		}
		for i := range vec {
			if got[i] != vec[i] {
				t.Errorf("vector %s[%d] = %v, want %v", id, i, got[i], vec[i])
			}
		}
	}
	if loaded.Collab.Mode != core.CollabFactorized {
		t.Errorf("mode = %s, want factorized", loaded.Collab.Mode)
	}
	if loaded.Collab.ItemScores["p1"] != 4.5 {
		t.Errorf("ItemScores[p1] = %v, want 4.5", loaded.Collab.ItemScores["p1"])
	}
	if loaded.Collab.Graph.Neighbors("p1")["p2"] != 0.69 {
		t.Errorf("graph edge = %v, want 0.69", loaded.Collab.Graph.Neighbors("p1")["p2"])
	}
	// the loaded snapshot is sealed and queryable by id
	if p := loaded.Product("p1"); p == nil || p.Name != "Earbuds" {
		t.Errorf("Product(p1) = %+v, want Earbuds", p)
	}
}

func TestLoadSnapshotIncompleteArtifacts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	t.Run("empty store", func(t *testing.T) {
		if _, err := LoadSnapshot(ctx, s); !core.IsStoreNotFound(err) {
			t.Fatalf("err = %v, want not-found", err)
		}
	})

	t.Run("one artifact missing", func(t *testing.T) {
		if err := SaveSnapshot(ctx, s, buildSnapshot()); err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
		gen, err := currentGen(ctx, s)
		if err != nil {
			t.Fatalf("currentGen: %v", err)
		}
		if err := s.Delete(ctx, keysFor(gen).genome); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		// a partial artifact set must never load as a snapshot
		if _, err := LoadSnapshot(ctx, s); !core.IsStoreNotFound(err) {
			t.Fatalf("err = %v, want not-found", err)
		}
	})
}

// faultStore 让一次批量写入或指针写入失败，模拟写到一半断掉的存储。
type faultStore struct {
	*MemoryStore
	failBatchSet bool
	failSet      bool
}

var errFault = core.NewDomainError(core.ModuleStore, core.ErrorCodeInternalError, "store: connection lost")

func (f *faultStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	if f.failBatchSet {
		return errFault
	}
	return f.MemoryStore.BatchSet(ctx, kvs, ttl...)
}

func (f *faultStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	if f.failSet && key == keyCurrent {
		return errFault
	}
	return f.MemoryStore.Set(ctx, key, value, ttl...)
}

func TestSaveSnapshotInterruptedKeepsPreviousGeneration(t *testing.T) {
	ctx := context.Background()
	fs := &faultStore{MemoryStore: NewMemoryStore()}

	if err := SaveSnapshot(ctx, fs, buildSnapshot()); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	gen, err := currentGen(ctx, fs)
	if err != nil {
		t.Fatalf("currentGen: %v", err)
	}

	// a second build whose artifact data never lands must not move the pointer
	next := buildSnapshot()
	next.Products[0].Name = "Updated Earbuds"

	t.Run("data write fails", func(t *testing.T) {
		fs.failBatchSet = true
		defer func() { fs.failBatchSet = false }()
		if err := SaveSnapshot(ctx, fs, next); err == nil {
			t.Fatal("SaveSnapshot should surface the write failure")
		}
	})

	t.Run("pointer swap fails", func(t *testing.T) {
		fs.failSet = true
		defer func() { fs.failSet = false }()
		if err := SaveSnapshot(ctx, fs, next); err == nil {
			t.Fatal("SaveSnapshot should surface the publish failure")
		}
	})

	after, err := currentGen(ctx, fs)
	if err != nil {
		t.Fatalf("currentGen: %v", err)
	}
	if after != gen {
		t.Fatalf("pointer moved from %s to %s despite failed saves", gen, after)
	}
	loaded, err := LoadSnapshot(ctx, fs)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	// the readable set is still the first complete generation, not a mix
	if got := loaded.Product("p1").Name; got != "Earbuds" {
		t.Errorf("Product(p1).Name = %q, want the previous generation's value", got)
	}
	if loaded.Dim != 2 || loaded.Collab.Mode != core.CollabFactorized {
		t.Errorf("loaded snapshot incomplete: dim=%d mode=%s", loaded.Dim, loaded.Collab.Mode)
	}
}

func TestSaveSnapshotReplacesGeneration(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := SaveSnapshot(ctx, s, buildSnapshot()); err != nil {
		t.Fatalf("first SaveSnapshot: %v", err)
	}
	firstGen, _ := currentGen(ctx, s)

	next := buildSnapshot()
	next.Products[0].Name = "Updated Earbuds"
	if err := SaveSnapshot(ctx, s, next); err != nil {
		t.Fatalf("second SaveSnapshot: %v", err)
	}

	loaded, err := LoadSnapshot(ctx, s)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got := loaded.Product("p1").Name; got != "Updated Earbuds" {
		t.Errorf("Product(p1).Name = %q, want the new generation's value", got)
	}
	// the superseded generation's data keys are cleaned up
	if firstGen != "" {
		for _, k := range keysFor(firstGen).all() {
			if _, err := s.Get(ctx, k); !core.IsStoreNotFound(err) {
				t.Errorf("old generation key %s still present", k)
			}
		}
	}
}

func TestDeleteSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := SaveSnapshot(ctx, s, buildSnapshot()); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := DeleteSnapshot(ctx, s); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	if _, err := LoadSnapshot(ctx, s); !core.IsStoreNotFound(err) {
		t.Fatalf("err after delete = %v, want not-found", err)
	}
}
