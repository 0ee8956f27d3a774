package pipeline

import (
	"context"

	"github.com/rushteam/genomekit/core"
)

// Pipeline 把一次推荐查询拆成可组合的 Node 链：
// 各信号节点 → （可选）过滤 → 融合 → 多样性重排。
// 请求内各节点严格串行，每个节点依赖上一个节点的输出。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
