package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFlexValue_JSONNumber(t *testing.T) {
	var v FlexValue
	require.NoError(t, json.Unmarshal([]byte(`42.5`), &v))

	num, ok := v.Number()
	assert.True(t, ok)
	assert.Equal(t, 42.5, num)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `42.5`, string(out))
}

func TestFlexValue_JSONDoc(t *testing.T) {
	var v FlexValue
	require.NoError(t, json.Unmarshal([]byte(`{"grade_a": 55, "grade_b": 40}`), &v))

	doc, ok := v.Doc()
	assert.True(t, ok)
	assert.Equal(t, 55.0, doc["grade_a"])

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"grade_a": 55, "grade_b": 40}`, string(out))
}

func TestFlexValue_JSONNull(t *testing.T) {
	var v FlexValue
	require.NoError(t, json.Unmarshal([]byte(`null`), &v))
	assert.True(t, v.IsZero())

	// null 不得退化成数值 0
	_, ok := v.Number()
	assert.False(t, ok)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

// 结构体字段里的 null 同样原样往返
func TestFlexValue_JSONNullInStruct(t *testing.T) {
	var crop Crop
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"crop_name":"Rice","avg_price":null}`), &crop))
	assert.True(t, crop.AvgPrice.IsZero())

	out, err := json.Marshal(crop)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"avg_price":null`)
}

func TestFlexValue_JSONRejectsOtherShapes(t *testing.T) {
	var v FlexValue
	assert.Error(t, json.Unmarshal([]byte(`"forty"`), &v))
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &v))
}

// BSON 往返：Crop 文档中既有数值也有文档形状的 avg_price
func TestFlexValue_BSONRoundTrip(t *testing.T) {
	crops := []Crop{
		{ID: 1, CropName: "Rice", AvgPrice: FlexNumber(40)},
		{ID: 2, CropName: "Wheat", AvgPrice: FlexDoc(map[string]any{"retail": 32.0})},
	}

	for _, crop := range crops {
		raw, err := bson.Marshal(crop)
		require.NoError(t, err)

		var got Crop
		require.NoError(t, bson.Unmarshal(raw, &got))
		assert.Equal(t, crop.CropName, got.CropName)

		if num, ok := crop.AvgPrice.Number(); ok {
			gotNum, gotOK := got.AvgPrice.Number()
			assert.True(t, gotOK)
			assert.Equal(t, num, gotNum)
		}
		if _, ok := crop.AvgPrice.Doc(); ok {
			gotDoc, gotOK := got.AvgPrice.Doc()
			assert.True(t, gotOK)
			assert.Equal(t, 32.0, gotDoc["retail"])
		}
	}
}

// int32 形状的 BSON 数值（聚合里 $ifNull 的默认 0）也要能解码
func TestFlexValue_BSONInt32(t *testing.T) {
	raw, err := bson.Marshal(bson.D{{Key: "avg_price", Value: int32(0)}})
	require.NoError(t, err)

	var doc struct {
		AvgPrice FlexValue `bson:"avg_price"`
	}
	require.NoError(t, bson.Unmarshal(raw, &doc))

	num, ok := doc.AvgPrice.Number()
	assert.True(t, ok)
	assert.Equal(t, 0.0, num)
}
