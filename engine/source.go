package engine

import (
	"context"

	"github.com/rushteam/genomekit/core"
)

// MemorySource 是内存表实现的 DataSource，用于测试/开发/原型。
// 生产接入（表清洗、数值纠偏）由上游系统实现同一接口。
type MemorySource struct {
	Products []core.Product
	Reviews  []core.Review
}

func (s *MemorySource) Load(_ context.Context) ([]core.Product, []core.Review, error) {
	// 返回副本：构建方会派生列（评论极性），不能污染调用方的表
	products := make([]core.Product, len(s.Products))
	copy(products, s.Products)
	reviews := make([]core.Review, len(s.Reviews))
	copy(reviews, s.Reviews)
	return products, reviews, nil
}

var _ core.DataSource = (*MemorySource)(nil)
