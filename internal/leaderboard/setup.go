package leaderboard

// PrimeCache 是leaderboard模块的初始化入口。
// 存档表由save模块迁移，这里只负责把榜单缓存预热到Redis。
func PrimeCache() error {
	return WarmupCache()
}
