// Package blend 把三路异质信号标准化后线性融合为最终排序分。
package blend

import (
	"context"
	"sort"

	"github.com/rushteam/genomekit/core"
	"github.com/rushteam/genomekit/pipeline"
	"github.com/rushteam/genomekit/pkg/mathx"
	"github.com/rushteam/genomekit/pkg/utils"
)

// DefaultWeights 是 content / cf / compat 的默认融合权重。
var DefaultWeights = [3]float64{0.45, 0.35, 0.20}

// Node 是融合节点。各信号先做 z-score 标准化（零方差序列归全 0），
// 再按权重加权求和写入 Item.Score，最后按 Score 降序稳定排序
// （同分保持输入顺序）。
//
// 权重在总和为正时归一化（比例不变、量纲稳定）；总和 ≤ 0 时静默退化为
// 无权重求和——与既有系统行为一致，是否应当改为参数校验错误仍是悬而未决
// 的问题，这里保持现状。
type Node struct {
	// Weights 依次对应 content / cf / compat；零值使用 DefaultWeights
	Weights [3]float64
}

func (n *Node) Name() string        { return "blend" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindBlend }

func (n *Node) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	w := n.Weights
	// 请求级参数覆盖节点静态配置
	if rctx != nil {
		if ws, ok := rctx.Params["weights"].([3]float64); ok {
			w = ws
		}
	}
	if w == [3]float64{} {
		w = DefaultWeights
	}
	if sum := w[0] + w[1] + w[2]; sum > 0 {
		w[0], w[1], w[2] = w[0]/sum, w[1]/sum, w[2]/sum
	} else {
		w = [3]float64{1, 1, 1}
	}

	signals := [3]string{core.SignalContent, core.SignalCollab, core.SignalCompat}
	standardized := make([][]float64, 3)
	for s, name := range signals {
		series := make([]float64, len(items))
		for i, it := range items {
			series[i] = it.Signal(name)
		}
		standardized[s] = mathx.ZScore(series)
	}

	for i, it := range items {
		it.Score = w[0]*standardized[0][i] + w[1]*standardized[1][i] + w[2]*standardized[2][i]
		it.PutLabel("blend", utils.Label{Value: "zscore_weighted", Source: "blend"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items, nil
}

var _ pipeline.Node = (*Node)(nil)
