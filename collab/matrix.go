// Package collab 估计协同信号：用户×物品评分矩阵低秩分解，稀疏时退化为
// PMI 共现图。分解是否可行在构建期一次性敲定（两态结果），查询期只读。
package collab

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/genomekit/core"
)

// UserItemMatrix 是 user×item 平均评分矩阵。
// 未观测条目在稠密物化时按 0 填充——这只是分解基线的近似处理，
// 语义上未观测 ≠ 零分（兜底链路直接回到原始评论，不经过这里）。
type UserItemMatrix struct {
	Users []string
	Items []string
	Data  *mat.Dense
}

// BuildUserItemMatrix 把评论透视为 (user × item) 平均评分。
// 保留至少 minUserRatings 个评分的用户，以及至少被评过一次的物品。
// 行列按字典序排列，保证重建结果逐位一致。
func BuildUserItemMatrix(reviews []core.Review, minUserRatings int) *UserItemMatrix {
	if minUserRatings <= 0 {
		minUserRatings = 1
	}

	type cell struct {
		sum   float64
		count int
	}
	byUser := make(map[string]map[string]*cell)
	for _, r := range reviews {
		items := byUser[r.UserID]
		if items == nil {
			items = make(map[string]*cell)
			byUser[r.UserID] = items
		}
		c := items[r.ProductID]
		if c == nil {
			c = &cell{}
			items[r.ProductID] = c
		}
		c.sum += r.Rating
		c.count++
	}

	users := make([]string, 0, len(byUser))
	itemSet := make(map[string]struct{})
	for u, items := range byUser {
		if len(items) < minUserRatings {
			continue
		}
		users = append(users, u)
		for it := range items {
			itemSet[it] = struct{}{}
		}
	}
	sort.Strings(users)

	items := make([]string, 0, len(itemSet))
	for it := range itemSet {
		items = append(items, it)
	}
	sort.Strings(items)

	m := &UserItemMatrix{Users: users, Items: items}
	if len(users) == 0 || len(items) == 0 {
		return m
	}

	itemIdx := make(map[string]int, len(items))
	for i, it := range items {
		itemIdx[it] = i
	}
	m.Data = mat.NewDense(len(users), len(items), nil)
	for ui, u := range users {
		for it, c := range byUser[u] {
			m.Data.Set(ui, itemIdx[it], c.sum/float64(c.count))
		}
	}
	return m
}
