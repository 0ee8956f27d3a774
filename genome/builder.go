// Package genome 构建商品内容基因：文本、类目、数值属性融合为固定维度的稠密潜向量。
//
// 构建一次、只读使用；目录里的每个商品（包括无描述、无评论的）都恰有一条
// 维度一致的基因向量。
package genome

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/genomekit/core"
	"github.com/rushteam/genomekit/pkg/mathx"
)

// Builder 是内容基因构建器。零值字段走默认配置。
type Builder struct {
	// Dim 基因向量目标维度（默认 128，受 min(商品数, 特征数) 截断）
	Dim int

	// MaxFeatures 文本词表上限（默认 8000）
	MaxFeatures int

	// MinDF 词串最小文档频次（默认 3）
	MinDF int

	// MaxReviewTexts 每个商品最多聚合的评论条数（默认 30，按输入顺序取前 N 条）
	MaxReviewTexts int
}

func (b *Builder) maxReviewTexts() int {
	if b.MaxReviewTexts <= 0 {
		return 30
	}
	return b.MaxReviewTexts
}

// Build 产出 product_id → 基因向量，以及实际生效的维度。
// 输入表为空或缺必需字段时返回 DATA_INVALID，且保证发生在任何拟合之前。
func (b *Builder) Build(products []core.Product, reviews []core.Review) (map[string][]float64, int, error) {
	if err := Validate(products, reviews); err != nil {
		return nil, 0, err
	}

	// 逐商品聚合评论：前 N 条文本 + 平均极性
	type reviewAgg struct {
		texts     []string
		sentiment []float64
	}
	agg := make(map[string]*reviewAgg, len(products))
	for _, r := range reviews {
		a := agg[r.ProductID]
		if a == nil {
			a = &reviewAgg{}
			agg[r.ProductID] = a
		}
		if len(a.texts) < b.maxReviewTexts() {
			a.texts = append(a.texts, r.Text)
		}
		a.sentiment = append(a.sentiment, r.Sentiment)
	}

	n := len(products)
	corpus := make([]string, n)
	categories := make([]string, n)
	priceCol := make([]float64, n)
	discountCol := make([]float64, n)
	ratingCol := make([]float64, n)
	ratingCountCol := make([]float64, n)
	sentimentCol := make([]float64, n)

	for i := range products {
		p := &products[i]
		// CombinedText 是构建期派生列：名称 + 描述，商品名里的词
		// （品牌、型号、品类词）和描述一样进入文本特征
		p.CombinedText = strings.TrimSpace(p.Name + " " + p.Description)
		blob := CleanText(p.CombinedText)
		if a := agg[p.ProductID]; a != nil {
			blob = blob + " " + CleanText(strings.Join(a.texts, " "))
			sentimentCol[i] = mathx.Mean(a.sentiment)
		}
		corpus[i] = blob
		categories[i] = p.Category
		priceCol[i] = p.Price
		discountCol[i] = p.Discount
		ratingCol[i] = p.Rating
		ratingCountCol[i] = math.Log1p(float64(p.RatingCount))
	}

	// 文本：有界词表 TF-IDF
	tfidf := &TFIDF{MinDF: b.MinDF, MaxFeatures: b.MaxFeatures}
	textRows := tfidf.FitTransform(corpus)

	// 类目：one-hot（未知类目归 unknown 桶）
	catEnc := &CategoryEncoder{}
	catEnc.Fit(categories)

	// 数值：中位数填充 + 无中心化缩放
	scaler := &NumericScaler{}
	numRows := scaler.FitTransform([][]float64{
		priceCol, discountCol, ratingCol, ratingCountCol, sentimentCol,
	})

	textDim, catDim, numDim := tfidf.Dim(), catEnc.Dim(), 5
	total := textDim + catDim + numDim
	x := mat.NewDense(n, total, nil)
	for i := 0; i < n; i++ {
		for j, v := range textRows[i] {
			x.Set(i, j, v)
		}
		for j, v := range catEnc.Transform(categories[i]) {
			x.Set(i, textDim+j, v)
		}
		for j, v := range numRows[i] {
			x.Set(i, textDim+catDim+j, v)
		}
	}

	dim := b.Dim
	if dim <= 0 {
		dim = 128
	}
	svd := &TruncatedSVD{Components: dim}
	latent, d, err := svd.FitTransform(x)
	if err != nil {
		return nil, 0, fmt.Errorf("genome: reduce features: %w", err)
	}

	vectors := make(map[string][]float64, n)
	for i, p := range products {
		row := make([]float64, d)
		mat.Row(row, i, latent)
		vectors[p.ProductID] = row
	}
	return vectors, d, nil
}

// Validate 校验输入表：商品表非空、product_id 非空且唯一；
// 评论行（若有）必须带 user_id 与 product_id。
func Validate(products []core.Product, reviews []core.Review) error {
	if len(products) == 0 {
		return core.NewDomainError(core.ModuleGenome, core.ErrorCodeDataInvalid,
			"genome: product table is empty")
	}
	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		if p.ProductID == "" {
			return core.NewDomainError(core.ModuleGenome, core.ErrorCodeDataInvalid,
				fmt.Sprintf("genome: product row %d missing product_id", i))
		}
		if _, dup := seen[p.ProductID]; dup {
			return core.NewDomainError(core.ModuleGenome, core.ErrorCodeDataInvalid,
				fmt.Sprintf("genome: duplicate product_id %q", p.ProductID))
		}
		seen[p.ProductID] = struct{}{}
	}
	for i, r := range reviews {
		if r.ProductID == "" || r.UserID == "" {
			return core.NewDomainError(core.ModuleGenome, core.ErrorCodeDataInvalid,
				fmt.Sprintf("genome: review row %d missing user_id/product_id", i))
		}
	}
	return nil
}
