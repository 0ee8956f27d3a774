package signal

import (
	"context"
	"strings"

	"github.com/rushteam/genomekit/core"
	"github.com/rushteam/genomekit/pipeline"
	"github.com/rushteam/genomekit/pkg/utils"
)

// Collab 是协同信号节点，按构建期敲定的两态结果取值：
//   - Factorized：直接查每个物品的平均预测评分
//   - Graph：从显式收藏种子（名称/ID 子串匹配）出发沿 PMI 图取邻居，
//     同一邻居被多个种子触达时保留最大权重；不可达物品记 0
type Collab struct{}

func (n *Collab) Name() string        { return "signal.cf" }
func (n *Collab) Kind() pipeline.Kind { return pipeline.KindSignal }

func (n *Collab) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	snap := rctx.Snapshot
	if snap == nil || len(items) == 0 {
		return items, nil
	}

	collab := snap.Collab
	if collab.Mode == core.CollabFactorized {
		for _, it := range items {
			it.PutSignal(core.SignalCollab, collab.ItemScores[it.ID])
			it.PutLabel("signal_cf", utils.Label{Value: "factorized", Source: "signal"})
		}
		return items, nil
	}

	reachable := seedNeighborScores(rctx.Questionnaire.ExplicitFavorites, snap)
	for _, it := range items {
		it.PutSignal(core.SignalCollab, reachable[it.ID])
		it.PutLabel("signal_cf", utils.Label{Value: "graph", Source: "signal"})
	}
	return items, nil
}

// seedNeighborScores 把每个匹配到的种子商品的 PMI 邻居并入结果，
// 同一邻居取各种子中的最大边权。
func seedNeighborScores(explicitFavorites []string, snap *core.Snapshot) map[string]float64 {
	out := make(map[string]float64)
	seeds := lowerAll(explicitFavorites)
	if len(seeds) == 0 {
		return out
	}
	for _, p := range snap.Products {
		name := strings.ToLower(p.Name)
		id := strings.ToLower(p.ProductID)
		if !containsAny(name, seeds) && !containsAny(id, seeds) {
			continue
		}
		for nbr, w := range snap.Collab.Graph.Neighbors(p.ProductID) {
			if w > out[nbr] {
				out[nbr] = w
			}
		}
	}
	return out
}

var _ pipeline.Node = (*Collab)(nil)
