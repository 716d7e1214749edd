package mongostore

import (
	"context"

	"village-admin/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ============================================================================
// MarketStore
// ============================================================================

func (s *Store) ListPlaces(ctx context.Context) ([]*model.Place, error) {
	return findMany[model.Place](ctx, s.col(ColPlaces), bson.D{})
}

func (s *Store) CreateCrop(ctx context.Context, c *model.Crop) error {
	return insertOne(ctx, s.col(ColCrops), c)
}

func (s *Store) ListCrops(ctx context.Context) ([]*model.Crop, error) {
	return findMany[model.Crop](ctx, s.col(ColCrops), bson.D{})
}

func (s *Store) UpdateCrop(ctx context.Context, id int64, cropName string, avgPrice model.FlexValue) error {
	return updateFields(ctx, s.col(ColCrops), id, bson.D{
		{Key: "crop_name", Value: cropName},
		{Key: "avg_price", Value: avgPrice},
	})
}

func (s *Store) UpdateCropAvgPrice(ctx context.Context, id int64, avgPrice model.FlexValue) error {
	return updateFields(ctx, s.col(ColCrops), id, bson.D{
		{Key: "avg_price", Value: avgPrice},
	})
}

func (s *Store) CreatePrice(ctx context.Context, p *model.Price) error {
	return insertOne(ctx, s.col(ColPrices), p)
}

func (s *Store) UpdatePrice(ctx context.Context, id int64, price model.FlexValue, monthYear string) error {
	return updateFields(ctx, s.col(ColPrices), id, bson.D{
		{Key: "price", Value: price},
		{Key: "month_year", Value: monthYear},
	})
}

// CropsForPlace 按地点查询作物行情
//
// 价格记录 $lookup 作物参考数据后 $unwind（preserveNullAndEmptyArrays），
// 作物已被删除的悬空引用不丢行，由 $ifNull 兜底为 "Unknown"/0。
// price/avg_price 可能是数值也可能是文档，投影时原样透传。
func (s *Store) CropsForPlace(ctx context.Context, placeID int64) ([]*model.CropPriceRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "place_id", Value: placeID},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: ColCrops},
			{Key: "localField", Value: "crop_id"},
			{Key: "foreignField", Value: "id"},
			{Key: "as", Value: "cropDetails"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$cropDetails"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "id", Value: 1},
			{Key: "price", Value: 1},
			{Key: "month_year", Value: 1},
			{Key: "crop_name", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$cropDetails.crop_name", "Unknown"}}}},
			{Key: "avg_price", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$cropDetails.avg_price", 0}}}},
		}}},
	}

	cursor, err := s.col(ColPrices).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapError(err)
	}
	defer cursor.Close(ctx)

	rows := []*model.CropPriceRow{}
	for cursor.Next(ctx) {
		var row model.CropPriceRow
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, &row)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
