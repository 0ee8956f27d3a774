// Package demographic 按问卷与商品属性的启发式匹配计算人群契合分，范围 [0,1]。
package demographic

import (
	"strings"

	"github.com/rushteam/genomekit/core"
)

// 三路子项的固定权重
const (
	categoryWeight    = 0.5
	priceLevelWeight  = 0.3
	sensitivityWeight = 0.2
)

// Scorer 是问卷契合打分器。
// PreferredBrands / PreferNewness 字段只接收不打分（保留扩展位），
// 不要在这里为它们补充语义。
type Scorer struct {
	// LowMax / MidMax 是价位分桶断点：(0, LowMax] 低、(LowMax, MidMax] 中、
	// 以上为高。默认 20 / 100。
	LowMax float64
	MidMax float64
}

func (s *Scorer) lowMax() float64 {
	if s.LowMax <= 0 {
		return 20
	}
	return s.LowMax
}

func (s *Scorer) midMax() float64 {
	if s.MidMax <= 0 {
		return 100
	}
	return s.MidMax
}

// Bucket 返回价格所属档位。
func (s *Scorer) Bucket(price float64) core.PriceLevel {
	if price <= s.lowMax() {
		return core.PriceLevelLow
	}
	if price <= s.midMax() {
		return core.PriceLevelMid
	}
	return core.PriceLevelHigh
}

// Score 计算每个商品与问卷的契合分：
//   - 类目项：命中喜好类目 1.0；给了喜好但未命中 0.6；未给喜好 0.8（中性）
//   - 价位项：声明了价位档时，档位全同 1.0、任一方为 mid 0.7、否则 0.4；未声明 0.8
//   - 敏感项：价格按目录 min/max 线性归一后随敏感度压低高价（s<1 时效果减半）
//
// 三项按 0.5/0.3/0.2 加权求和并钳制到 [0,1]。
func (s *Scorer) Score(q core.Questionnaire, products []core.Product) map[string]float64 {
	favCats := make([]string, 0, len(q.FavoriteCategories))
	for _, c := range q.FavoriteCategories {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			favCats = append(favCats, c)
		}
	}

	minPrice, maxPrice := priceRange(products)
	priceSpan := maxPrice - minPrice + 1e-9
	userLevel := q.AvgPriceLevel
	sens := q.PriceSensitivity

	out := make(map[string]float64, len(products))
	for _, p := range products {
		catScore := 0.8
		if len(favCats) > 0 {
			catScore = 0.6
			cat := strings.ToLower(p.Category)
			for _, fc := range favCats {
				if strings.Contains(cat, fc) {
					catScore = 1.0
					break
				}
			}
		}

		levelScore := 0.8
		if userLevel != core.PriceLevelNone {
			pb := s.Bucket(p.Price)
			switch {
			case pb == userLevel:
				levelScore = 1.0
			case pb == core.PriceLevelMid || userLevel == core.PriceLevelMid:
				levelScore = 0.7
			default:
				levelScore = 0.4
			}
		}

		priceNorm := (p.Price - minPrice) / priceSpan
		var sensScore float64
		if sens >= 1 {
			sensScore = 1 - priceNorm*(sens-1)
		} else {
			sensScore = 1 - priceNorm*(sens*0.5)
		}

		final := categoryWeight*catScore + priceLevelWeight*levelScore + sensitivityWeight*sensScore
		if final < 0 {
			final = 0
		}
		if final > 1 {
			final = 1
		}
		out[p.ProductID] = final
	}
	return out
}

func priceRange(products []core.Product) (min, max float64) {
	if len(products) == 0 {
		return 0, 0
	}
	min, max = products[0].Price, products[0].Price
	for _, p := range products[1:] {
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}
	return min, max
}
