package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rushteam/genomekit/core"
)

// 构建产物按"代"（generation）落盘：四个数据 key 带代号前缀，
// 指针 key 永远指向最后一套完整写入的代。
//
// 写入顺序是原子性的关键：先批量写满整代数据，最后才交换指针。
// 写入中途失败（进程崩溃、连接中断、后端只应用了前缀命令）时指针
// 不动，读取方仍然加载上一套完整工件——不会出现新商品表配旧基因
// 向量这种混代快照。
const (
	keyCurrent = "genomekit:artifact:current"
	keyPrefix  = "genomekit:artifact:"
)

// artifactKeys 是一代工件的四个数据 key。
type artifactKeys struct {
	products string
	reviews  string
	genome   string
	collab   string
}

func keysFor(gen string) artifactKeys {
	return artifactKeys{
		products: keyPrefix + gen + ":products",
		reviews:  keyPrefix + gen + ":reviews",
		genome:   keyPrefix + gen + ":genome",
		collab:   keyPrefix + gen + ":collab",
	}
}

func (k artifactKeys) all() []string {
	return []string{k.products, k.reviews, k.genome, k.collab}
}

// genomeBlob 把向量表和维度绑在一个 blob 里，避免两者失配。
type genomeBlob struct {
	Dim     int                  `json:"dim"`
	Vectors map[string][]float64 `json:"vectors"`
}

// genSeq 在时钟分辨率不足时保证同进程内代号不重复。
var genSeq atomic.Int64

func newGen() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36) +
		"-" + strconv.FormatInt(genSeq.Add(1), 36)
}

// SaveSnapshot 持久化整套工件：全部编码 → 整代批量写入 → 最后交换指针。
// 任何一步失败都不会改变指针指向，旧的完整工件集保持可读。
func SaveSnapshot(ctx context.Context, s core.Store, snap *core.Snapshot) error {
	gen := newGen()
	keys := keysFor(gen)

	kvs := make(map[string][]byte, 4)
	parts := []struct {
		key string
		val any
	}{
		{keys.products, snap.Products},
		{keys.reviews, snap.Reviews},
		{keys.genome, genomeBlob{Dim: snap.Dim, Vectors: snap.Genome}},
		{keys.collab, snap.Collab},
	}
	for _, part := range parts {
		raw, err := json.Marshal(part.val)
		if err != nil {
			return fmt.Errorf("store: encode %s: %w", part.key, err)
		}
		kvs[part.key] = raw
	}

	// 记下旧代，指针交换成功后清理
	oldGen, _ := currentGen(ctx, s)

	if err := s.BatchSet(ctx, kvs); err != nil {
		return fmt.Errorf("store: persist artifacts: %w", err)
	}
	if err := s.Set(ctx, keyCurrent, []byte(gen)); err != nil {
		return fmt.Errorf("store: publish artifact generation: %w", err)
	}

	// 旧代清理是尽力而为：清不掉只会多占空间，不影响正确性
	if oldGen != "" && oldGen != gen {
		for _, k := range keysFor(oldGen).all() {
			_ = s.Delete(ctx, k)
		}
	}
	return nil
}

// LoadSnapshot 按指针回载当前代工件并重建快照。指针不存在、或指向的代
// 缺任何一个数据 key，都按"工件缺失"处理——读取方永远拿不到混代组合。
func LoadSnapshot(ctx context.Context, s core.Store) (*core.Snapshot, error) {
	gen, err := currentGen(ctx, s)
	if err != nil {
		return nil, err
	}
	keys := keysFor(gen)

	blobs, err := s.BatchGet(ctx, keys.all())
	if err != nil {
		return nil, fmt.Errorf("store: load artifacts: %w", err)
	}
	for _, k := range keys.all() {
		if _, ok := blobs[k]; !ok {
			return nil, core.ErrStoreNotFound
		}
	}

	snap := &core.Snapshot{}
	if err := json.Unmarshal(blobs[keys.products], &snap.Products); err != nil {
		return nil, fmt.Errorf("store: decode products: %w", err)
	}
	if err := json.Unmarshal(blobs[keys.reviews], &snap.Reviews); err != nil {
		return nil, fmt.Errorf("store: decode reviews: %w", err)
	}
	var gb genomeBlob
	if err := json.Unmarshal(blobs[keys.genome], &gb); err != nil {
		return nil, fmt.Errorf("store: decode genome: %w", err)
	}
	snap.Genome = gb.Vectors
	snap.Dim = gb.Dim
	if err := json.Unmarshal(blobs[keys.collab], &snap.Collab); err != nil {
		return nil, fmt.Errorf("store: decode collab: %w", err)
	}
	return snap.Seal(), nil
}

// DeleteSnapshot 删除整套工件（显式重建前的清场用）。
// 先摘指针再删数据：并发读取方最多看到"工件缺失"，不会读到半套。
func DeleteSnapshot(ctx context.Context, s core.Store) error {
	gen, err := currentGen(ctx, s)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil
		}
		return err
	}
	if err := s.Delete(ctx, keyCurrent); err != nil {
		return fmt.Errorf("store: delete %s: %w", keyCurrent, err)
	}
	for _, k := range keysFor(gen).all() {
		if err := s.Delete(ctx, k); err != nil {
			return fmt.Errorf("store: delete %s: %w", k, err)
		}
	}
	return nil
}

func currentGen(ctx context.Context, s core.Store) (string, error) {
	raw, err := s.Get(ctx, keyCurrent)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", core.ErrStoreNotFound
	}
	return string(raw), nil
}
