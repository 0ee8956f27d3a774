package collab

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Factorize 对评分矩阵做秩 K 的 SVD 重建，返回每个物品在全体用户上的
// 平均预测评分（群体层面的偏好代理，不是个性化预测）。
//
// 基线近似：未观测评分按 0 参与分解，会把无人评过的物品往负向拉。
// 这是有记录的已知偏差，除非明确要求改进，保持原样。
//
// 分解不可行（矩阵太小、不收敛）时返回错误；调用方按降级处理，不上抛。
func Factorize(m *UserItemMatrix, k int) (map[string]float64, error) {
	if m == nil || m.Data == nil {
		return nil, fmt.Errorf("collab: empty rating matrix")
	}
	rows, cols := m.Data.Dims()
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("collab: rating matrix too small (%dx%d)", rows, cols)
	}

	if k <= 0 {
		k = 64
	}
	if k > rows {
		k = rows
	}
	if k > cols {
		k = cols
	}

	var svd mat.SVD
	if ok := svd.Factorize(m.Data, mat.SVDThin); !ok {
		return nil, fmt.Errorf("collab: svd factorization did not converge")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigma := svd.Values(nil)

	// X̂ = U_k·Σ_k·V_kᵀ，直接按物品列聚合均值，不物化整个重建矩阵
	scores := make(map[string]float64, len(m.Items))
	for j, item := range m.Items {
		var colSum float64
		for i := 0; i < rows; i++ {
			var pred float64
			for f := 0; f < k; f++ {
				pred += u.At(i, f) * sigma[f] * v.At(j, f)
			}
			colSum += pred
		}
		scores[item] = colSum / float64(rows)
	}
	return scores, nil
}
