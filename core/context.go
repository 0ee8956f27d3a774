package core

import "github.com/rushteam/genomekit/pkg/utils"

// RecommendContext 承载单次推荐请求的问卷、快照与请求级参数，贯穿整个 Pipeline 透传。
// Snapshot 是构建阶段产出的只读引用；查询链路不得修改其内容。
type RecommendContext struct {
	// Questionnaire 是本次请求的结构化问卷
	Questionnaire Questionnaire

	// Snapshot 是当前生效的构建产物快照（只读借用）
	Snapshot *Snapshot

	// Labels 是请求级标签，可驱动整个 Pipeline 行为（如 price_sensitive）
	Labels map[string]utils.Label

	// Params 请求级上下文参数（top_k、mmr_lambda、weights 等节点自取），
	// 覆盖节点的静态配置：同一条配置驱动的 Pipeline 可以逐请求调参
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
