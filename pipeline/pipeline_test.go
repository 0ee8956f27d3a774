package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/genomekit/core"
	"github.com/rushteam/genomekit/pkg/utils"
)

// stubNode stamps its name onto every item's trace label so the traversal
// order is observable (labels accumulate with '|').
type stubNode struct {
	name string
	kind Kind
	fail error
}

func (n *stubNode) Name() string { return n.name }
func (n *stubNode) Kind() Kind   { return n.kind }

func (n *stubNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if n.fail != nil {
		return nil, n.fail
	}
	for _, it := range items {
		it.PutLabel("trace", utils.Label{Value: n.name, Source: string(n.kind)})
	}
	return items, nil
}

func TestPipelineRunsNodesInOrder(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&stubNode{name: "first", kind: KindSignal},
		&stubNode{name: "second", kind: KindBlend},
		&stubNode{name: "third", kind: KindReRank},
	}}

	items := []*core.Item{core.NewItem("x")}
	out, err := p.Run(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	trace := out[0].Labels["trace"]
	if trace.Value != "first|second|third" {
		t.Fatalf("trace = %q, want first|second|third", trace.Value)
	}
}

func TestPipelineStopsOnNodeError(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{
		&stubNode{name: "ok", kind: KindSignal},
		&stubNode{name: "broken", kind: KindFilter, fail: boom},
		&stubNode{name: "never", kind: KindBlend},
	}}

	_, err := p.Run(context.Background(), &core.RecommendContext{}, []*core.Item{core.NewItem("x")})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestNodeFactory(t *testing.T) {
	f := NewNodeFactory()
	f.Register("stub", func(cfg map[string]interface{}) (Node, error) {
		return &stubNode{name: "stub", kind: KindSignal}, nil
	})

	if _, err := f.Build("stub", nil); err != nil {
		t.Errorf("Build(stub): %v", err)
	}
	if _, err := f.Build("unknown", nil); err == nil {
		t.Error("Build(unknown) should fail")
	}
}

func TestLoadFromYAMLAndBuild(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	raw := `
pipeline:
  name: query
  nodes:
    - type: stub
      config:
        k: 5
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if cfg.Pipeline.Name != "query" {
		t.Errorf("name = %q, want query", cfg.Pipeline.Name)
	}
	if len(cfg.Pipeline.Nodes) != 1 || cfg.Pipeline.Nodes[0].Type != "stub" {
		t.Fatalf("nodes = %+v", cfg.Pipeline.Nodes)
	}

	f := NewNodeFactory()
	var gotCfg map[string]interface{}
	f.Register("stub", func(c map[string]interface{}) (Node, error) {
		gotCfg = c
		return &stubNode{name: "stub", kind: KindSignal}, nil
	})
	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if len(p.Nodes) != 1 {
		t.Fatalf("len(nodes) = %d, want 1", len(p.Nodes))
	}
	if gotCfg["k"] != 5 {
		t.Errorf("config k = %v, want 5", gotCfg["k"])
	}
}
