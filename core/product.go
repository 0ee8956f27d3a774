package core

import "context"

// Product 是清洗后的商品记录，每个 product_id 唯一，构建后不再修改。
// CombinedText 是构建期派生列：name + description 的拼接，作为文本特征
// 的语料基底（语料里还会拼上评论文本，但评论不落到这个字段）。
type Product struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Discount     float64 `json:"discount"`
	Rating       float64 `json:"rating"`
	RatingCount  int     `json:"rating_count"`
	CombinedText string  `json:"combined_text,omitempty"`
}

// Review 是清洗后的评论记录。Sentiment 由构建阶段的词法极性启发式填充，范围 [-1,1]。
type Review struct {
	ReviewID  string  `json:"review_id"`
	UserID    string  `json:"user_id"`
	ProductID string  `json:"product_id"`
	Rating    float64 `json:"rating"`
	Text      string  `json:"review_text"`
	Sentiment float64 `json:"sentiment"`
}

// PriceLevel 是问卷声明的价位档。空串表示未声明。
type PriceLevel string

const (
	PriceLevelNone PriceLevel = ""
	PriceLevelLow  PriceLevel = "low"
	PriceLevelMid  PriceLevel = "mid"
	PriceLevelHigh PriceLevel = "high"
)

// Questionnaire 是用户问卷的结构化表达：所有可识别字段显式声明，
// 不再使用 map 透传（不认识的 key 在入口处即丢弃）。
//
// PreferredBrands 与 PreferNewness 仅接收、暂不参与打分，是保留的扩展位；
// 不要私自为它们发明打分语义。
type Questionnaire struct {
	FavoriteCategories []string   `json:"favorite_categories,omitempty"`
	PreferredBrands    []string   `json:"preferred_brands,omitempty"` // 保留字段，暂不打分
	PriceSensitivity   float64    `json:"price_sensitivity"`          // 名义区间 [0,2]，1.0 为中性
	AvgPriceLevel      PriceLevel `json:"avg_price_level,omitempty"`
	ExplicitFavorites  []string   `json:"explicit_favorites,omitempty"` // 按子串匹配商品名/ID
	PreferNewness      bool       `json:"prefer_newness,omitempty"`     // 保留字段，暂不打分
}

// DataSource 是数据接入的领域接口：上游负责把原始表清洗成规范的
// Product / Review 两张表（文本规整、数值纠偏、缺失标记）。
// 接入与清洗本身不在本仓库范围内，这里只约定边界。
type DataSource interface {
	Load(ctx context.Context) (products []Product, reviews []Review, err error)
}
