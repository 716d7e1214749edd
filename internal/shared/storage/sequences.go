package storage

// 序列名称常量
//
// 名称与历史数据保持一致（crop/price 为单数），不可随意更名，
// 否则旧部署的计数器会失配。
const (
	SeqUsers         = "users"
	SeqAnnouncements = "announcements"
	SeqSuggestions   = "suggestions"
	SeqQueries       = "queries"
	SeqCrop          = "crop"
	SeqPrice         = "price"
)

// AllSequences 启动引导时需要预置的全部序列
var AllSequences = []string{
	SeqUsers,
	SeqAnnouncements,
	SeqSuggestions,
	SeqQueries,
	SeqCrop,
	SeqPrice,
}
