package signal

import (
	"context"

	"github.com/rushteam/genomekit/core"
	"github.com/rushteam/genomekit/demographic"
	"github.com/rushteam/genomekit/pipeline"
	"github.com/rushteam/genomekit/pkg/utils"
)

// Compat 是问卷契合信号节点：把 demographic.Scorer 的结果写入候选集。
type Compat struct {
	// Scorer 为空时使用默认断点的打分器
	Scorer *demographic.Scorer
}

func (n *Compat) Name() string        { return "signal.compat" }
func (n *Compat) Kind() pipeline.Kind { return pipeline.KindSignal }

func (n *Compat) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	snap := rctx.Snapshot
	if snap == nil || len(items) == 0 {
		return items, nil
	}

	scorer := n.Scorer
	if scorer == nil {
		scorer = &demographic.Scorer{}
	}
	scores := scorer.Score(rctx.Questionnaire, snap.Products)
	for _, it := range items {
		it.PutSignal(core.SignalCompat, scores[it.ID])
		it.PutLabel("signal_compat", utils.Label{Value: "questionnaire", Source: "signal"})
	}
	return items, nil
}

var _ pipeline.Node = (*Compat)(nil)
