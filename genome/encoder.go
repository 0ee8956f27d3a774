package genome

import (
	"math"
	"sort"
	"strings"

	"github.com/rushteam/genomekit/pkg/mathx"
)

// unknownCategory 是空/缺失类目的专用桶。
const unknownCategory = "unknown"

// CategoryEncoder 是类目 one-hot 编码器。
// 空类目归入 "unknown" 桶；查询期遇到拟合时未见过的类目输出全零行（忽略而非报错）。
type CategoryEncoder struct {
	index map[string]int
}

// Fit 收集类目全集并固定列顺序（字典序，保证重建结果逐位一致）。
func (e *CategoryEncoder) Fit(categories []string) {
	set := make(map[string]struct{})
	for _, c := range categories {
		set[normalizeCategory(c)] = struct{}{}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.index = make(map[string]int, len(keys))
	for i, k := range keys {
		e.index[k] = i
	}
}

// Dim 返回编码维度；Fit 之前为 0。
func (e *CategoryEncoder) Dim() int { return len(e.index) }

// Transform 输出 one-hot 行向量。
func (e *CategoryEncoder) Transform(category string) []float64 {
	row := make([]float64, len(e.index))
	if col, ok := e.index[normalizeCategory(category)]; ok {
		row[col] = 1
	}
	return row
}

func normalizeCategory(c string) string {
	c = strings.TrimSpace(strings.ToLower(c))
	if c == "" {
		return unknownCategory
	}
	return c
}

// NumericScaler 把数值列缩放到可比量级：逐列除以总体标准差，不减均值
// （保持非负性，与稀疏文本特征拼接后不破坏其结构）。
// NaN 在缩放前用该列中位数填充。
type NumericScaler struct {
	scale []float64
}

// FitTransform 对列优先传入的数值矩阵（cols[j][i] = 第 i 行第 j 列）做
// 中位数填充 + 无中心化缩放，返回行优先的结果矩阵。
func (s *NumericScaler) FitTransform(cols [][]float64) [][]float64 {
	nCols := len(cols)
	if nCols == 0 {
		return nil
	}
	nRows := len(cols[0])

	s.scale = make([]float64, nCols)
	for j, col := range cols {
		// 中位数填充：仅用有效值计算
		valid := make([]float64, 0, len(col))
		for _, v := range col {
			if !math.IsNaN(v) {
				valid = append(valid, v)
			}
		}
		med := mathx.Median(valid)
		for i, v := range col {
			if math.IsNaN(v) {
				col[i] = med
			}
		}
		sd := mathx.Std(col)
		if sd == 0 {
			sd = 1 // 常数列原样保留
		}
		s.scale[j] = sd
	}

	rows := make([][]float64, nRows)
	for i := 0; i < nRows; i++ {
		row := make([]float64, nCols)
		for j := 0; j < nCols; j++ {
			row[j] = cols[j][i] / s.scale[j]
		}
		rows[i] = row
	}
	return rows
}
