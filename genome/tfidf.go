package genome

import (
	"math"
	"sort"
	"strings"
)

// TFIDF 是有界词表的加权词频向量化器：1~2 元词串、min-df 过滤、
// 词表截断、平滑 idf、行 L2 归一。Fit 一次后词表只读。
type TFIDF struct {
	// MinDF 一个词串至少出现在多少个文档中才进入词表（默认 3）
	MinDF int

	// MaxFeatures 词表上限，超出时按语料总频次保留最高的（默认 8000）
	MaxFeatures int

	// NGramMax 词串最大长度（默认 2，即 1-gram + 2-gram）
	NGramMax int

	vocab map[string]int
	idf   []float64
}

func (t *TFIDF) minDF() int {
	if t.MinDF <= 0 {
		return 3
	}
	return t.MinDF
}

func (t *TFIDF) maxFeatures() int {
	if t.MaxFeatures <= 0 {
		return 8000
	}
	return t.MaxFeatures
}

func (t *TFIDF) nGramMax() int {
	if t.NGramMax <= 0 {
		return 2
	}
	return t.NGramMax
}

// Dim 返回词表大小；Fit 之前为 0。
func (t *TFIDF) Dim() int { return len(t.vocab) }

// tokenize 切词并生成 1..NGramMax 元词串。单字符 token 丢弃。
func (t *TFIDF) tokenize(doc string) []string {
	words := strings.Fields(CleanText(doc))
	kept := words[:0]
	for _, w := range words {
		if len(w) >= 2 {
			kept = append(kept, w)
		}
	}
	grams := make([]string, 0, len(kept)*t.nGramMax())
	for n := 1; n <= t.nGramMax(); n++ {
		for i := 0; i+n <= len(kept); i++ {
			grams = append(grams, strings.Join(kept[i:i+n], " "))
		}
	}
	return grams
}

// FitTransform 在语料上拟合词表并返回每个文档的 TF-IDF 行向量。
// 返回矩阵行数 = len(docs)，列数 = Dim()。
func (t *TFIDF) FitTransform(docs []string) [][]float64 {
	n := len(docs)
	tokenized := make([][]string, n)
	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)
	for i, doc := range docs {
		grams := t.tokenize(doc)
		tokenized[i] = grams
		seen := make(map[string]struct{}, len(grams))
		for _, g := range grams {
			totalFreq[g]++
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			docFreq[g]++
		}
	}

	// min-df 过滤
	type termStat struct {
		term string
		freq int
	}
	candidates := make([]termStat, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= t.minDF() {
			candidates = append(candidates, termStat{term: term, freq: totalFreq[term]})
		}
	}
	// 词表截断：按语料总频次降序，同频按字典序保证确定性
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].freq != candidates[j].freq {
			return candidates[i].freq > candidates[j].freq
		}
		return candidates[i].term < candidates[j].term
	})
	if len(candidates) > t.maxFeatures() {
		candidates = candidates[:t.maxFeatures()]
	}
	// 列顺序按字典序固定，保证重建结果逐位一致
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].term < candidates[j].term })

	t.vocab = make(map[string]int, len(candidates))
	t.idf = make([]float64, len(candidates))
	for col, c := range candidates {
		t.vocab[c.term] = col
		// 平滑 idf：ln((1+n)/(1+df)) + 1
		t.idf[col] = math.Log(float64(1+n)/float64(1+docFreq[c.term])) + 1
	}

	rows := make([][]float64, n)
	for i := range docs {
		rows[i] = t.transformTokens(tokenized[i])
	}
	return rows
}

func (t *TFIDF) transformTokens(grams []string) []float64 {
	row := make([]float64, len(t.vocab))
	for _, g := range grams {
		if col, ok := t.vocab[g]; ok {
			row[col] += t.idf[col]
		}
	}
	// 行 L2 归一，使文本长度不影响量级
	var norm float64
	for _, v := range row {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range row {
			row[i] /= norm
		}
	}
	return row
}

// Transform 用已拟合的词表向量化新文档；词表外的词串被忽略。
func (t *TFIDF) Transform(doc string) []float64 {
	return t.transformTokens(t.tokenize(doc))
}
