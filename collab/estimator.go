package collab

import (
	"github.com/rushteam/genomekit/core"
)

// Estimator 是协同信号估计器。零值字段走默认配置。
type Estimator struct {
	// MinUserRatings 用户至少要有几个评分才进入矩阵（默认 1）
	MinUserRatings int

	// Factors 分解的潜因子数（默认 64，受 min(矩阵维度) 截断）
	Factors int
}

// Estimate 在构建期一次性决定协同信号形态并返回两态结果：
//   - Factorized：分解成功，ItemScores 即查询期的协同信号
//   - Graph：分解不可行，查询期用 PMI 图 + 显式收藏种子兜底
//
// 分解失败只记录在 DegradedReason，不作为错误上抛——这是永久的降级
// 决策，不是可重试故障。PMI 图无论分解成败都会构建并随快照持久化。
func (e *Estimator) Estimate(reviews []core.Review) core.CollabResult {
	graph, itemCounts, userCount := BuildPMI(reviews)
	result := core.CollabResult{
		Graph:      graph,
		ItemCounts: itemCounts,
		UserCount:  userCount,
	}

	m := BuildUserItemMatrix(reviews, e.MinUserRatings)
	scores, err := Factorize(m, e.Factors)
	if err != nil {
		result.Mode = core.CollabGraph
		result.DegradedReason = err.Error()
		return result
	}

	result.Mode = core.CollabFactorized
	result.ItemScores = scores
	return result
}
