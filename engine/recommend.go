package engine

import (
	"context"
	"fmt"

	"github.com/rushteam/genomekit/blend"
	"github.com/rushteam/genomekit/core"
	"github.com/rushteam/genomekit/filter"
	"github.com/rushteam/genomekit/pipeline"
	"github.com/rushteam/genomekit/rerank"
	"github.com/rushteam/genomekit/signal"
	"github.com/rushteam/genomekit/store"
)

// RecommendRequest 是一次推荐查询的参数。
type RecommendRequest struct {
	Questionnaire core.Questionnaire

	// TopK 返回条数；0 取默认 10，负数是参数错误
	TopK int

	// Weights 依次对应 content / cf / compat；全零取默认 (0.45, 0.35, 0.20)
	Weights [3]float64

	// MMRLambda 相关性/冗余度权衡系数，[0,1]；nil 取默认 0.7
	// （0 是合法取值，用指针区分"未给"）
	MMRLambda *float64
}

// Recommendation 是单条推荐结果：最终融合分 + 三路信号明细。
type Recommendation struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"product_name"`
	Score     float64 `json:"score"`
	Content   float64 `json:"content"`
	Collab    float64 `json:"cf"`
	Compat    float64 `json:"compatibility"`
}

const (
	defaultTopK      = 10
	defaultMMRLambda = 0.7
)

// Recommend 对当前快照执行一次查询。
// 快照不存在且存储中也回载不到时返回 ARTIFACT_MISSING（先 Build 再查询）；
// 参数非法返回 INVALID_CONFIG，且发生在任何计算之前。
func (e *Engine) Recommend(ctx context.Context, req RecommendRequest) ([]Recommendation, error) {
	topK, lam, weights, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	snap, err := e.currentSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*core.Item, 0, len(snap.Products))
	for _, p := range snap.Products {
		items = append(items, core.NewItem(p.ProductID))
	}

	// 校验补全后的参数走请求级 Params 下发，融合/重排节点自取
	rctx := &core.RecommendContext{
		Questionnaire: req.Questionnaire,
		Snapshot:      snap,
		Params: map[string]any{
			"top_k":      topK,
			"mmr_lambda": lam,
			"weights":    weights,
		},
	}

	nodes := []pipeline.Node{
		&signal.Content{},
		&signal.Collab{},
		&signal.Compat{Scorer: e.scorer},
	}
	if len(e.filters) > 0 {
		nodes = append(nodes, &filter.Node{Filters: e.filters})
	}
	nodes = append(nodes,
		&blend.Node{},
		&rerank.MMR{},
	)

	p := &pipeline.Pipeline{Nodes: nodes}
	out, err := p.Run(ctx, rctx, items)
	if err != nil {
		return nil, err
	}

	results := make([]Recommendation, 0, len(out))
	for _, it := range out {
		rec := Recommendation{
			ProductID: it.ID,
			Score:     it.Score,
			Content:   it.Signal(core.SignalContent),
			Collab:    it.Signal(core.SignalCollab),
			Compat:    it.Signal(core.SignalCompat),
		}
		if p := snap.Product(it.ID); p != nil {
			rec.Name = p.Name
		}
		results = append(results, rec)
	}
	return results, nil
}

// normalizeRequest 校验并补全请求参数；校验先于一切计算。
func normalizeRequest(req RecommendRequest) (topK int, lam float64, weights [3]float64, err error) {
	topK = req.TopK
	if topK == 0 {
		topK = defaultTopK
	}
	if topK < 0 {
		return 0, 0, weights, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("engine: top_k must be positive, got %d", req.TopK))
	}

	lam = defaultMMRLambda
	if req.MMRLambda != nil {
		lam = *req.MMRLambda
	}
	if lam < 0 || lam > 1 {
		return 0, 0, weights, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("engine: mmr_lambda must be in [0,1], got %v", lam))
	}

	weights = req.Weights
	if weights == [3]float64{} {
		weights = blend.DefaultWeights
	}
	for i, w := range weights {
		if w < 0 {
			return 0, 0, weights, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidConfig,
				fmt.Sprintf("engine: weight[%d] must be non-negative, got %v", i, w))
		}
	}
	return topK, lam, weights, nil
}

// currentSnapshot 返回生效快照；进程里没有时尝试从存储回载一次。
func (e *Engine) currentSnapshot(ctx context.Context) (*core.Snapshot, error) {
	if snap := e.snapshot.Load(); snap != nil {
		return snap, nil
	}
	if snap, err := e.loadPersisted(ctx); err == nil && snap != nil {
		// 并发回载时先到先得，保证所有请求看到同一份
		e.snapshot.CompareAndSwap(nil, snap)
		return e.snapshot.Load(), nil
	}
	return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeArtifactMissing,
		"engine: artifacts missing, run build first")
}

func (e *Engine) loadPersisted(ctx context.Context) (*core.Snapshot, error) {
	if e.opts.Store == nil {
		return nil, core.ErrStoreNotFound
	}
	return store.LoadSnapshot(ctx, e.opts.Store)
}

func (e *Engine) persist(ctx context.Context, snap *core.Snapshot) error {
	return store.SaveSnapshot(ctx, e.opts.Store, snap)
}
