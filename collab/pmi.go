package collab

import (
	"math"
	"sort"

	"github.com/rushteam/genomekit/core"
)

const pmiEpsilon = 1e-12

// BuildPMI 构建物品共现图：凡被同一用户共同评过的物品对都计一次共现
// （两个方向各一条），按点互信息给边加权，只保留 PMI > 0 的正关联边。
//
//	PMI(a,b) = ln( (c/N) / ((count_a/N)·(count_b/N)) + ε )，N 为用户数
//
// 公式本身对称，两个方向的边权一致。
func BuildPMI(reviews []core.Review) (core.PMIGraph, map[string]int, int) {
	userItems := make(map[string]map[string]struct{})
	for _, r := range reviews {
		set := userItems[r.UserID]
		if set == nil {
			set = make(map[string]struct{})
			userItems[r.UserID] = set
		}
		set[r.ProductID] = struct{}{}
	}

	itemCounts := make(map[string]int)
	type pair struct{ a, b string }
	coCounts := make(map[pair]int)
	for _, set := range userItems {
		items := make([]string, 0, len(set))
		for it := range set {
			items = append(items, it)
		}
		sort.Strings(items)
		for _, it := range items {
			itemCounts[it]++
		}
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				coCounts[pair{items[i], items[j]}]++
				coCounts[pair{items[j], items[i]}]++
			}
		}
	}

	nUsers := len(userItems)
	graph := make(core.PMIGraph)
	if nUsers == 0 {
		return graph, itemCounts, 0
	}
	n := float64(nUsers)
	for p, c := range coCounts {
		pA := float64(itemCounts[p.a]) / n
		pB := float64(itemCounts[p.b]) / n
		pAB := float64(c) / n
		val := math.Log(pAB/(pA*pB) + pmiEpsilon)
		if val <= 0 {
			continue
		}
		edges := graph[p.a]
		if edges == nil {
			edges = make(map[string]float64)
			graph[p.a] = edges
		}
		edges[p.b] = val
	}
	return graph, itemCounts, nUsers
}
