package model

// Place 行政村/集市位置，基本静态的参考数据
type Place struct {
	ID        int64  `bson:"id" json:"id"`
	PlaceName string `bson:"place_name" json:"place_name"`
}

// Crop 作物参考数据
//
// AvgPrice 历史上既有纯数值也有结构化文档（按品级细分的价格表），
// 因此使用 FlexValue 原样透传，消费方不得假定固定形状。
type Crop struct {
	ID       int64     `bson:"id" json:"id"`
	CropName string    `bson:"crop_name" json:"crop_name"`
	AvgPrice FlexValue `bson:"avg_price" json:"avg_price"`
}

// Price 某地某作物的现价记录
//
// (PlaceID, CropID) 组合唯一，由存储层复合唯一索引保证。
type Price struct {
	ID        int64     `bson:"id" json:"id"`
	PlaceID   int64     `bson:"place_id" json:"place_id"`
	CropID    int64     `bson:"crop_id" json:"crop_id"`
	Price     FlexValue `bson:"price" json:"price"`
	MonthYear string    `bson:"month_year" json:"month_year"`
}

// CropPriceRow 按地点查询作物行情的结果行
//
// 价格记录左连接作物参考数据；作物已被删除时 CropName 为 "Unknown"、
// AvgPrice 为 0，而不是丢行或报错。
type CropPriceRow struct {
	ID        int64     `bson:"id" json:"id"`
	CropName  string    `bson:"crop_name" json:"crop_name"`
	Price     FlexValue `bson:"price" json:"price"`
	MonthYear string    `bson:"month_year" json:"month_year"`
	AvgPrice  FlexValue `bson:"avg_price" json:"avg_price"`
}
