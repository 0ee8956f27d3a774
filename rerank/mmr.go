// Package rerank 在融合排序的结果上做多样性重排与截断。
package rerank

import (
	"context"

	"github.com/rushteam/genomekit/core"
	"github.com/rushteam/genomekit/pipeline"
	"github.com/rushteam/genomekit/pkg/mathx"
	"github.com/rushteam/genomekit/pkg/utils"
)

// MMR 是 Maximal Marginal Relevance 重排节点：贪心选取
//
//	value = λ·relevance − (1−λ)·max_similarity(candidate, selected)
//
// 最大的候选，直到选满 K 个或候选耗尽。relevance 取内容信号而非融合分
// ——多样性是在语义相似度空间里计算的，相关性来源与之保持一致（有意为之）。
// 已选集为空时 max_similarity 记 0；同值平局按输入顺序先到先得。
//
// 单步代价 O(|pool|·|selected|)，整体 O(K·|pool|·|selected|)。对目录级
// 候选量和几十以内的 K 没有压力；若移植到大候选池需要重新评估。
type MMR struct {
	// K 目标数量；K <= 0 时不截断（选完整个候选池）
	K int

	// Lambda 相关性/冗余度权衡系数，[0,1]；1 为纯相关性排序
	Lambda float64
}

func (n *MMR) Name() string        { return "rerank.mmr" }
func (n *MMR) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *MMR) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	k := n.K
	lam := n.Lambda
	var snap *core.Snapshot
	if rctx != nil {
		snap = rctx.Snapshot
		// 请求级参数覆盖节点静态配置
		if v, ok := rctx.Params["top_k"].(int); ok {
			k = v
		}
		if v, ok := rctx.Params["mmr_lambda"].(float64); ok {
			lam = v
		}
	}
	if k <= 0 || k > len(items) {
		k = len(items)
	}

	pool := make([]*core.Item, len(items))
	copy(pool, items)
	selected := make([]*core.Item, 0, k)

	for len(pool) > 0 && len(selected) < k {
		bestIdx := -1
		bestVal := 0.0
		for i, cand := range pool {
			rel := cand.Signal(core.SignalContent)
			div := 0.0
			if len(selected) > 0 && snap != nil {
				candVec := snap.Vector(cand.ID)
				for _, sel := range selected {
					if sim := mathx.Cosine(candVec, snap.Vector(sel.ID)); sim > div {
						div = sim
					}
				}
			}
			val := lam*rel - (1-lam)*div
			// 严格大于：平局保留先遇到的候选
			if bestIdx < 0 || val > bestVal {
				bestIdx = i
				bestVal = val
			}
		}
		chosen := pool[bestIdx]
		chosen.PutLabel("rerank", utils.Label{Value: "mmr", Source: "rerank"})
		selected = append(selected, chosen)
		pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
	}
	return selected, nil
}

var _ pipeline.Node = (*MMR)(nil)
