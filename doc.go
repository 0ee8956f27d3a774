// Package genomekit 是一个混合商品推荐打分引擎（Product Genome Hybrid Recommender）。
//
// 设计要点：
// - 两阶段：Build 一次性构建内容基因 + 协同信号并原子发布快照；Recommend 只读快照
// - Pipeline-first: 查询逻辑通过 Node 串联（Signal → Filter → Blend → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 优雅降级: 协同分解不可行时构建期一次性退化为 PMI 共现图，查询链路永远有结果
package genomekit

import "github.com/rushteam/genomekit/pipeline"

// 轻量 facade：便于用户直接 import "genomekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindSignal = pipeline.KindSignal
	KindFilter = pipeline.KindFilter
	KindBlend  = pipeline.KindBlend
	KindReRank = pipeline.KindReRank
)
