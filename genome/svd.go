package genome

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// TruncatedSVD 把高维特征矩阵压缩到固定的 Components 维潜空间。
// 具体分解委托给 gonum；这里只约定输入输出形状和降维语义。
type TruncatedSVD struct {
	// Components 目标维度，实际生效值被 min(rows, cols) 截断
	Components int
}

// FitTransform 返回 rows × D 的潜向量矩阵（D = min(Components, rows, cols)）。
// 潜向量 = U_D · Σ_D，即每行是该样本在前 D 个奇异方向上的坐标。
func (t *TruncatedSVD) FitTransform(x *mat.Dense) (*mat.Dense, int, error) {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return nil, 0, fmt.Errorf("svd: empty input matrix (%dx%d)", rows, cols)
	}

	d := t.Components
	if d <= 0 {
		d = 128
	}
	if d > rows {
		d = rows
	}
	if d > cols {
		d = cols
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, 0, fmt.Errorf("svd: factorization did not converge")
	}

	var u mat.Dense
	svd.UTo(&u)
	sigma := svd.Values(nil)

	latent := mat.NewDense(rows, d, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < d; j++ {
			latent.Set(i, j, u.At(i, j)*sigma[j])
		}
	}
	return latent, d, nil
}
