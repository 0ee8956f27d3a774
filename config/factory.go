package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/genomekit/blend"
	"github.com/rushteam/genomekit/demographic"
	"github.com/rushteam/genomekit/filter"
	"github.com/rushteam/genomekit/pipeline"
	"github.com/rushteam/genomekit/pkg/conv"
	"github.com/rushteam/genomekit/rerank"
	"github.com/rushteam/genomekit/signal"
)

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 构建 Node。
// 自定义 Node 调用 Register(typeName, builder) 即可被配置驱动。
type NodeBuilder = pipeline.NodeBuilder

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultBuildersMu sync.RWMutex
)

func init() {
	Register("signal.content", buildContentNode)
	Register("signal.cf", buildCollabNode)
	Register("signal.compat", buildCompatNode)
	Register("filter.expr", buildExprFilterNode)
	Register("blend", buildBlendNode)
	Register("rerank.mmr", buildMMRNode)
}

// Register 注册一种 Node 的构建逻辑，供 DefaultFactory 与配置驱动使用。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回基于当前注册表构建的 NodeFactory。
func DefaultFactory() *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidatePipelineConfig 校验 pipeline 配置中所有 node 类型均已注册；
// 有未支持类型时返回包含已支持列表的错误。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	supported := SupportedTypes()
	for _, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			continue
		}
		defaultBuildersMu.RLock()
		_, ok := defaultBuilders[nc.Type]
		defaultBuildersMu.RUnlock()
		if !ok {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return nil
}

func buildContentNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &signal.Content{}, nil
}

func buildCollabNode(_ map[string]interface{}) (pipeline.Node, error) {
	return &signal.Collab{}, nil
}

func buildCompatNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &signal.Compat{
		Scorer: &demographic.Scorer{
			LowMax: conv.ConfigGetFloat64(cfg, "price_low_max", 0),
			MidMax: conv.ConfigGetFloat64(cfg, "price_mid_max", 0),
		},
	}, nil
}

func buildExprFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	expression := conv.ConfigGet[string](cfg, "expr", "")
	if expression == "" {
		return nil, fmt.Errorf("filter.expr: expr is required")
	}
	f, err := filter.NewExpr(expression)
	if err != nil {
		return nil, err
	}
	return &filter.Node{Filters: []filter.Filter{f}}, nil
}

func buildBlendNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &blend.Node{}
	if ws := conv.SliceAnyToFloat64(cfg["weights"]); ws != nil {
		if len(ws) != 3 {
			return nil, fmt.Errorf("blend: weights must have 3 entries, got %d", len(ws))
		}
		copy(node.Weights[:], ws)
	}
	return node, nil
}

func buildMMRNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.MMR{
		K:      conv.ConfigGetInt(cfg, "k", 0),
		Lambda: conv.ConfigGetFloat64(cfg, "lambda", 0.7),
	}, nil
}
