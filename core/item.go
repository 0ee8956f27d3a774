package core

import "github.com/rushteam/genomekit/pkg/utils"

// 链路内约定的信号名。融合/重排节点按这些名字读取信号分值。
const (
	SignalContent = "content" // 内容基因相似度
	SignalCollab  = "cf"      // 协同信号
	SignalCompat  = "compat"  // 问卷契合度
)

// Item 是推荐链路中的统一承载结构：各信号分值、融合分、标签。
// Signals 保存 content / cf / compat 等单路信号；Score 是融合后的最终排序分。
// 商品元信息不在这里冗余一份：节点按 ID 从快照查。
type Item struct {
	ID      string
	Score   float64
	Signals map[string]float64
	Labels  map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:      id,
		Score:   0,
		Signals: make(map[string]float64),
		Labels:  make(map[string]utils.Label),
	}
}

// PutSignal 写入一路信号分值。
func (it *Item) PutSignal(name string, v float64) {
	if it.Signals == nil {
		it.Signals = make(map[string]float64)
	}
	it.Signals[name] = v
}

// Signal 读取一路信号分值；未写入时返回 0（信号缺失按 0 对齐，而非报错）。
func (it *Item) Signal(name string) float64 {
	if it.Signals == nil {
		return 0
	}
	return it.Signals[name]
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
