package utils

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// 查询链路上每个节点把自己的决策写成 Label（信号来源、意图种子、降级原因），
// 最终结果可以完整解释"这个商品为什么排在这里"。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // signal / blend / rerank / filter ...
}

// MergeLabel 用于合并同名 Label，遵循"保留历史、可追踪"的默认策略。
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
//
// 如果你需要更复杂的优先级/覆盖规则，可以在上层封装自己的 merge 策略。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
