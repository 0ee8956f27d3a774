package pipeline

import (
	"context"

	"github.com/rushteam/genomekit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindSignal Kind = "signal" // 信号阶段：为每个候选写入一路信号分值
	KindFilter Kind = "filter" // 过滤阶段：剔除不符合约束的候选
	KindBlend  Kind = "blend"  // 融合阶段：标准化各信号并加权合成最终分
	KindReRank Kind = "rerank" // 重排阶段：在融合结果上做多样性调优与截断
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态：信号节点就地标注、
// 过滤节点截断、融合节点改写 Score 并排序、重排节点调整顺序。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
