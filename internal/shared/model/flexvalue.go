package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// flexKind FlexValue 的变体标签
type flexKind int

const (
	flexNull flexKind = iota
	flexNumber
	flexDoc
)

// FlexValue 宽松取值字段：数值或结构化文档
//
// 历史数据中 price/avg_price 两种形状并存（Mongoose Mixed 的遗产），
// 这里用显式的变体类型承载，序列化时原样透传。零值编码为 null。
type FlexValue struct {
	kind flexKind
	num  float64
	doc  map[string]any
}

// FlexNumber 构造数值变体
func FlexNumber(n float64) FlexValue {
	return FlexValue{kind: flexNumber, num: n}
}

// FlexDoc 构造结构化文档变体
func FlexDoc(doc map[string]any) FlexValue {
	return FlexValue{kind: flexDoc, doc: doc}
}

// Number 返回数值及其是否为数值变体
func (v FlexValue) Number() (float64, bool) {
	return v.num, v.kind == flexNumber
}

// Doc 返回文档及其是否为文档变体
func (v FlexValue) Doc() (map[string]any, bool) {
	return v.doc, v.kind == flexDoc
}

// IsZero 是否为空值（既非数值也非文档）
func (v FlexValue) IsZero() bool {
	return v.kind == flexNull
}

// ============================================================================
// JSON 编解码
// ============================================================================

func (v FlexValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case flexNumber:
		return json.Marshal(v.num)
	case flexDoc:
		return json.Marshal(v.doc)
	default:
		return []byte("null"), nil
	}
}

func (v *FlexValue) UnmarshalJSON(data []byte) error {
	// null 必须先于数值分支判断：json.Unmarshal("null", &float64) 不报错也不赋值，
	// 否则 null 会被错认成数值 0
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = FlexValue{}
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = FlexNumber(num)
		return nil
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err == nil {
		*v = FlexDoc(doc)
		return nil
	}

	return fmt.Errorf("flexvalue: value must be a number or an object: %s", data)
}

// ============================================================================
// BSON 编解码
// ============================================================================

func (v FlexValue) MarshalBSONValue() (byte, []byte, error) {
	switch v.kind {
	case flexNumber:
		t, data, err := bson.MarshalValue(v.num)
		return byte(t), data, err
	case flexDoc:
		t, data, err := bson.MarshalValue(v.doc)
		return byte(t), data, err
	default:
		return byte(bson.TypeNull), []byte{}, nil
	}
}

func (v *FlexValue) UnmarshalBSONValue(typ byte, data []byte) error {
	switch bson.Type(typ) {
	case bson.TypeDouble, bson.TypeInt32, bson.TypeInt64:
		var num float64
		if err := bson.UnmarshalValue(bson.Type(typ), data, &num); err != nil {
			return err
		}
		*v = FlexNumber(num)
		return nil
	case bson.TypeEmbeddedDocument:
		var doc map[string]any
		if err := bson.UnmarshalValue(bson.Type(typ), data, &doc); err != nil {
			return err
		}
		*v = FlexDoc(doc)
		return nil
	case bson.TypeNull, bson.TypeUndefined:
		*v = FlexValue{}
		return nil
	default:
		return fmt.Errorf("flexvalue: unsupported BSON type %s", bson.Type(typ))
	}
}
