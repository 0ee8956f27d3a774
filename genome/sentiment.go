package genome

import "strings"

// 极轻量的词法极性启发式：按正/负情感词计数估计评论极性。
// 不做否定/程度处理，只求一个落在 [-1,1] 的稳定聚合信号。

var posTokens = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "love": {}, "loved": {},
	"best": {}, "amazing": {}, "nice": {}, "perfect": {}, "recommend": {},
}

var negTokens = map[string]struct{}{
	"bad": {}, "terrible": {}, "worst": {}, "hate": {}, "hated": {},
	"awful": {}, "poor": {}, "disappointed": {},
}

// CleanText 小写化并把非字母数字字符折叠为单个空格。
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		isWord := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isWord {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Sentiment 返回文本的启发式极性分，范围 [-1,1]；空文本返回 0。
// score = (pos - neg) / (1 + pos + neg)，pos/neg 按去重后的 token 计数。
func Sentiment(text string) float64 {
	t := CleanText(text)
	if t == "" {
		return 0
	}
	seen := make(map[string]struct{})
	var pos, neg int
	for _, tok := range strings.Fields(t) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if _, ok := posTokens[tok]; ok {
			pos++
		}
		if _, ok := negTokens[tok]; ok {
			neg++
		}
	}
	return float64(pos-neg) / float64(1+pos+neg)
}
