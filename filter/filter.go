package filter

import (
	"context"

	"github.com/rushteam/genomekit/core"
	"github.com/rushteam/genomekit/pipeline"
	"github.com/rushteam/genomekit/pkg/utils"
)

// Filter 是过滤器的抽象接口，用于判断一个候选是否应该被剔除。
// 返回 true 表示剔除，false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被剔除
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// Node 把一组 Filter 组合成 Pipeline 节点，依次应用；任一过滤器命中即剔除。
// 过滤后候选为空不是错误——下游内容信号会以目录质心兜底。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string        { return "filter" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		dropped := false
		for _, f := range n.Filters {
			hit, err := f.ShouldFilter(ctx, rctx, it)
			if err != nil {
				return nil, err
			}
			if hit {
				it.PutLabel("filtered_by", utils.Label{Value: f.Name(), Source: "filter"})
				dropped = true
				break
			}
		}
		if !dropped {
			out = append(out, it)
		}
	}
	return out, nil
}

var _ pipeline.Node = (*Node)(nil)
