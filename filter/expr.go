package filter

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/genomekit/core"
)

// Expr 是基于 CEL (Common Expression Language) 的候选过滤器。
// 表达式是"保留条件"：求值为 false 的候选被剔除。
//
// 表达式可用变量：
//   - item.id / item.name / item.category / item.price：商品元信息
//   - item.score：当前融合分（过滤节点放在融合前时恒为 0）
//   - signal.content / signal.cf / signal.compat：已写入的信号分值
//
// 示例：
//   - item.price < 1000.0
//   - item.category.contains("electronics") && item.price >= 20.0
type Expr struct {
	expression string
	program    cel.Program
}

// NewExpr 编译 CEL 表达式；语法错误在构造期暴露，而不是等到逐条求值。
func NewExpr(expression string) (*Expr, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("signal", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("filter: init cel env: %w", err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("filter: compile %q: %w", expression, issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("filter: build program: %w", err)
	}
	return &Expr{expression: expression, program: program}, nil
}

func (f *Expr) Name() string { return "filter.expr" }

func (f *Expr) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	itemVars := map[string]any{
		"id":    item.ID,
		"score": item.Score,
	}
	if rctx != nil && rctx.Snapshot != nil {
		if p := rctx.Snapshot.Product(item.ID); p != nil {
			itemVars["name"] = p.Name
			itemVars["category"] = p.Category
			itemVars["price"] = p.Price
		}
	}
	signalVars := make(map[string]any, len(item.Signals))
	for k, v := range item.Signals {
		signalVars[k] = v
	}

	out, _, err := f.program.Eval(map[string]any{
		"item":   itemVars,
		"signal": signalVars,
	})
	if err != nil {
		return false, fmt.Errorf("filter: eval %q: %w", f.expression, err)
	}
	keep, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter: expression %q is not boolean", f.expression)
	}
	return !keep, nil
}

var _ Filter = (*Expr)(nil)
