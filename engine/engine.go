// Package engine 编排混合推荐的两个阶段：
//
//   - Build：内容基因 + 协同信号构建一次，持久化后以一次原子指针交换发布
//     为不可变快照（构建是关键区，查询永远看不到半更新状态）
//   - Recommend：借用只读快照，跑 信号 → 过滤 → 融合 → MMR 重排 的节点链
//
// 请求之间相互独立、天然并行；请求内各节点严格串行。
package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rushteam/genomekit/collab"
	"github.com/rushteam/genomekit/core"
	"github.com/rushteam/genomekit/demographic"
	"github.com/rushteam/genomekit/filter"
	"github.com/rushteam/genomekit/genome"
)

// Options 是引擎装配参数。零值字段走各模块默认配置。
type Options struct {
	// Source 提供清洗后的商品/评论表（必填）
	Source core.DataSource

	// Store 持久化后端；为 nil 时快照只存在于进程内存
	Store core.Store

	// GenomeDim 基因向量维度（默认 128）
	GenomeDim int
	// MaxFeatures 文本词表上限（默认 8000）
	MaxFeatures int
	// MinDF 词串最小文档频次（默认 3）
	MinDF int
	// MaxReviewTexts 每个商品最多聚合的评论条数（默认 30）
	MaxReviewTexts int

	// CFFactors 协同分解潜因子数（默认 64）
	CFFactors int
	// MinUserRatings 进入评分矩阵的用户最少评分数（默认 1）
	MinUserRatings int

	// PriceLowMax / PriceMidMax 契合打分的价位分桶断点（默认 20 / 100）
	PriceLowMax float64
	PriceMidMax float64

	// FilterExpr 可选的候选保留条件（CEL 表达式）；空串表示不过滤
	FilterExpr string
}

// Engine 持有当前生效的快照并编排构建/查询。
type Engine struct {
	opts     Options
	scorer   *demographic.Scorer
	filters  []filter.Filter
	snapshot atomic.Pointer[core.Snapshot]
	buildSF  singleflight.Group
}

// New 装配引擎。候选过滤表达式在这里编译，语法错误立即暴露。
func New(opts Options) (*Engine, error) {
	if opts.Source == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidConfig,
			"engine: data source is required")
	}
	e := &Engine{
		opts:   opts,
		scorer: &demographic.Scorer{LowMax: opts.PriceLowMax, MidMax: opts.PriceMidMax},
	}
	if opts.FilterExpr != "" {
		f, err := filter.NewExpr(opts.FilterExpr)
		if err != nil {
			return nil, err
		}
		e.filters = append(e.filters, f)
	}
	return e, nil
}

// BuildStatus 描述一次 Build 调用的结果。
type BuildStatus struct {
	// Source 表示快照从哪来：built（重新计算）/ cached（进程内已有）/
	// loaded（从存储回载）
	Source string `json:"source"`

	Products   int             `json:"products"`
	Reviews    int             `json:"reviews"`
	GenomeDim  int             `json:"genome_dim"`
	CollabMode core.CollabMode `json:"collab_mode"`

	// DegradedReason 记录协同分解降级原因；空串表示未降级
	DegradedReason string `json:"degraded_reason,omitempty"`
}

// Build 构建全套工件并原子发布。
//
// force=false 且已有工件时原样返回（幂等，不会静默用旧输入重算）；
// force=true 总是重新计算。并发 Build 用 singleflight 合并为一次执行。
// 构建中任何一步失败都会整体中止，不落下半套工件、也不改动现有快照。
func (e *Engine) Build(ctx context.Context, force bool) (*BuildStatus, error) {
	key := "build"
	if force {
		key = "rebuild"
	}
	v, err, _ := e.buildSF.Do(key, func() (any, error) {
		return e.buildOnce(ctx, force)
	})
	if err != nil {
		return nil, err
	}
	return v.(*BuildStatus), nil
}

func (e *Engine) buildOnce(ctx context.Context, force bool) (*BuildStatus, error) {
	if !force {
		if snap := e.snapshot.Load(); snap != nil {
			return statusOf(snap, "cached"), nil
		}
		if snap, err := e.loadPersisted(ctx); err == nil && snap != nil {
			e.snapshot.Store(snap)
			return statusOf(snap, "loaded"), nil
		}
	}

	products, reviews, err := e.opts.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine: load source tables: %w", err)
	}
	// 评论极性是派生列，构建期统一计算
	for i := range reviews {
		reviews[i].Sentiment = genome.Sentiment(reviews[i].Text)
	}
	if err := genome.Validate(products, reviews); err != nil {
		return nil, err
	}

	snap := &core.Snapshot{Products: products, Reviews: reviews}

	// 基因构建与协同估计互不依赖，构建期并行
	var g errgroup.Group
	g.Go(func() error {
		builder := &genome.Builder{
			Dim:            e.opts.GenomeDim,
			MaxFeatures:    e.opts.MaxFeatures,
			MinDF:          e.opts.MinDF,
			MaxReviewTexts: e.opts.MaxReviewTexts,
		}
		vectors, dim, err := builder.Build(products, reviews)
		if err != nil {
			return err
		}
		snap.Genome = vectors
		snap.Dim = dim
		return nil
	})
	g.Go(func() error {
		estimator := &collab.Estimator{
			MinUserRatings: e.opts.MinUserRatings,
			Factors:        e.opts.CFFactors,
		}
		snap.Collab = estimator.Estimate(reviews)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.Seal()
	if e.opts.Store != nil {
		if err := e.persist(ctx, snap); err != nil {
			return nil, err
		}
	}

	// 发布：一次指针交换，并发查询要么旧快照要么新快照
	e.snapshot.Store(snap)
	return statusOf(snap, "built"), nil
}

func statusOf(snap *core.Snapshot, source string) *BuildStatus {
	return &BuildStatus{
		Source:         source,
		Products:       len(snap.Products),
		Reviews:        len(snap.Reviews),
		GenomeDim:      snap.Dim,
		CollabMode:     snap.Collab.Mode,
		DegradedReason: snap.Collab.DegradedReason,
	}
}

// Snapshot 返回当前生效的快照；没有时返回 nil。
func (e *Engine) Snapshot() *core.Snapshot {
	return e.snapshot.Load()
}
