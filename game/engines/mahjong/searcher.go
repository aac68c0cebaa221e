package mahjong

import (
	"github.com/dgraph-io/ristretto"
)

// Searcher 听牌查询的缓存层
// 同一局里听牌分析会对几乎相同的手牌反复执行，按 34 计数 + 副露数做 key 缓存
type Searcher struct {
	cache *ristretto.Cache
}

func NewSearcher() *Searcher {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 16,
		MaxCost:     1 << 22,
		BufferItems: 64,
	})
	if err != nil {
		// 配置是常量，失败只可能是参数非法
		panic(err)
	}
	return &Searcher{cache: cache}
}

func searchKey(counts *[TileTypeCount]int, meldCount int) string {
	var buf [TileTypeCount + 1]byte
	for i, c := range counts {
		buf[i] = byte(c)
	}
	buf[TileTypeCount] = byte(meldCount)
	return string(buf[:])
}

// Waits 听牌枚举（带缓存）
func (s *Searcher) Waits(concealed [TileTypeCount]int, meldCount int) []TileType {
	key := searchKey(&concealed, meldCount)
	if v, ok := s.cache.Get(key); ok {
		return v.([]TileType)
	}
	waits := ListWaits(concealed, meldCount)
	s.cache.Set(key, waits, int64(len(waits)+1))
	return waits
}

// IsTenpai 是否听牌
func (s *Searcher) IsTenpai(concealed [TileTypeCount]int, meldCount int) bool {
	return len(s.Waits(concealed, meldCount)) > 0
}

// DiscardWaits 打哪张听什么（不缓存，只在玩家 14 张时偶发调用）
func (s *Searcher) DiscardWaits(concealed [TileTypeCount]int, meldCount int) map[TileType][]TileType {
	return ListDiscardWaits(concealed, meldCount)
}

func (s *Searcher) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}
