package core

// CollabMode 标记协同信号在构建期一次性敲定的形态。
type CollabMode string

const (
	// CollabFactorized 低秩分解成功，ItemScores 可直接用作协同信号
	CollabFactorized CollabMode = "factorized"
	// CollabGraph 分解不可行，退化为 PMI 共现图兜底
	CollabGraph CollabMode = "graph"
)

// PMIGraph 是物品共现图：source product_id → {neighbor product_id: 正 PMI 权重}。
// 语义上无向（两个方向各存一条），只保留 PMI > 0 的边。
type PMIGraph map[string]map[string]float64

// Neighbors 返回某个商品的出边；不存在时返回 nil。
func (g PMIGraph) Neighbors(productID string) map[string]float64 {
	if g == nil {
		return nil
	}
	return g[productID]
}

// CollabResult 是协同信号估计的两态结果，构建期决定一次、查询期只读。
// 分解失败不是错误，而是一次性的降级决策（DegradedReason 记录原因）。
type CollabResult struct {
	Mode CollabMode `json:"mode"`

	// ItemScores 仅在 Factorized 形态下有值：每个物品的平均预测评分。
	// 这是群体层面的偏好代理，不是个性化预测（已知局限）。
	ItemScores map[string]float64 `json:"item_scores,omitempty"`

	// Graph 与 ItemCounts 任何形态下都会构建，作为显式收藏种子的兜底相关源。
	Graph      PMIGraph       `json:"graph"`
	ItemCounts map[string]int `json:"item_counts"`
	UserCount  int            `json:"user_count"`

	// DegradedReason 在退化为 Graph 形态时记录原因（空串表示未降级）。
	DegradedReason string `json:"degraded_reason,omitempty"`
}

// Snapshot 是一次成功构建产出的完整只读工件集。
//
// 构建是关键区：引擎只会在全部工件就绪后，用一次原子指针交换发布整个
// Snapshot——并发查询要么看到旧的完整快照，要么看到新的完整快照，
// 不存在半更新状态。发布后任何字段都不得修改。
type Snapshot struct {
	Products []Product `json:"products"`
	Reviews  []Review  `json:"reviews"`

	// Genome 是商品基因：product_id → 固定 Dim 维稠密向量。
	// 不变式：Products 中每个 product_id 在 Genome 中恰有一条向量。
	Genome map[string][]float64 `json:"genome"`
	Dim    int                  `json:"dim"`

	Collab CollabResult `json:"collab"`

	byID map[string]*Product
}

// Seal 建立内部索引并返回自身；构建方在发布前调用一次。
func (s *Snapshot) Seal() *Snapshot {
	s.byID = make(map[string]*Product, len(s.Products))
	for i := range s.Products {
		s.byID[s.Products[i].ProductID] = &s.Products[i]
	}
	return s
}

// Product 按 ID 查找商品；快照未包含时返回 nil。
func (s *Snapshot) Product(id string) *Product {
	if s == nil || s.byID == nil {
		return nil
	}
	return s.byID[id]
}

// Vector 返回商品基因向量；缺失时返回 nil。
func (s *Snapshot) Vector(id string) []float64 {
	if s == nil || s.Genome == nil {
		return nil
	}
	return s.Genome[id]
}

// Centroid 返回全量商品基因向量的均值（目录质心）。
// 当问卷给不出任何意图种子时，内容信号以质心为意图向量兜底。
func (s *Snapshot) Centroid() []float64 {
	if s == nil || len(s.Genome) == 0 || s.Dim <= 0 {
		return nil
	}
	mean := make([]float64, s.Dim)
	for _, vec := range s.Genome {
		for i, v := range vec {
			mean[i] += v
		}
	}
	n := float64(len(s.Genome))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}
