// Package signal 提供查询期的三路信号节点：内容基因相似度、协同信号、问卷契合度。
// 每个节点为候选集里的全部商品写入一路信号分值（缺失一律补 0），供融合节点对齐使用。
package signal

import (
	"context"
	"strings"

	"github.com/rushteam/genomekit/core"
	"github.com/rushteam/genomekit/pipeline"
	"github.com/rushteam/genomekit/pkg/mathx"
	"github.com/rushteam/genomekit/pkg/utils"
)

// Content 是内容信号节点：由问卷推出意图向量，再对每个商品算基因向量的
// 余弦相似度。
//
// 意图种子的选择顺序：
//   - 喜好类目命中的商品 ∪ 显式收藏（按名称/ID 子串匹配）命中的商品
//   - 一个都选不中时退回目录质心（全量基因向量均值）——这是既定的兜底
//     设计，此时内容分就是纯"与质心相似度"排序
type Content struct{}

func (n *Content) Name() string        { return "signal.content" }
func (n *Content) Kind() pipeline.Kind { return pipeline.KindSignal }

func (n *Content) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	snap := rctx.Snapshot
	if snap == nil || len(items) == 0 {
		return items, nil
	}

	intent, source := intentVector(rctx.Questionnaire, snap)
	rctx.PutLabel("intent_source", utils.Label{Value: source, Source: "signal"})

	for _, it := range items {
		score := 0.0
		if vec := snap.Vector(it.ID); vec != nil && intent != nil {
			score = mathx.Cosine(vec, intent)
		}
		it.PutSignal(core.SignalContent, score)
		it.PutLabel("signal_content", utils.Label{Value: source, Source: "signal"})
	}
	return items, nil
}

// intentVector 返回意图向量及其来源标识（categories / favorites / centroid）。
func intentVector(q core.Questionnaire, snap *core.Snapshot) ([]float64, string) {
	favCats := lowerAll(q.FavoriteCategories)
	favorites := lowerAll(q.ExplicitFavorites)

	var seeds []string
	seedSet := make(map[string]struct{})
	source := ""
	for _, p := range snap.Products {
		matched := false
		if len(favCats) > 0 && containsAny(strings.ToLower(p.Category), favCats) {
			matched = true
			if source == "" {
				source = "categories"
			}
		}
		if len(favorites) > 0 &&
			(containsAny(strings.ToLower(p.Name), favorites) ||
				containsAny(strings.ToLower(p.ProductID), favorites)) {
			matched = true
			source = "favorites"
		}
		if !matched {
			continue
		}
		if _, dup := seedSet[p.ProductID]; dup {
			continue
		}
		seedSet[p.ProductID] = struct{}{}
		seeds = append(seeds, p.ProductID)
	}

	vec := meanVector(seeds, snap)
	if vec == nil {
		return snap.Centroid(), "centroid"
	}
	return vec, source
}

// meanVector 对种子商品的基因向量取均值；没有任何种子在基因表里时返回 nil。
func meanVector(ids []string, snap *core.Snapshot) []float64 {
	if snap.Dim <= 0 {
		return nil
	}
	sum := make([]float64, snap.Dim)
	count := 0
	for _, id := range ids {
		vec := snap.Vector(id)
		if vec == nil {
			continue
		}
		for i, v := range vec {
			sum[i] += v
		}
		count++
	}
	if count == 0 {
		return nil
	}
	for i := range sum {
		sum[i] /= float64(count)
	}
	return sum
}

func lowerAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var _ pipeline.Node = (*Content)(nil)
