package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Amount is a price. Documents written by older tooling may hold prices as
// strings or integers; anything that does not parse decodes as zero.
type Amount float64

func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*a = Amount(coerceBSON(bson.RawValue{Type: t, Value: data}))
	return nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*a = Amount(finite(x))
	case string:
		*a = Amount(parseFloat(x))
	default:
		*a = 0
	}
	return nil
}

// Count is a line item quantity with the same lenient decoding as Amount.
type Count int

func (c *Count) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*c = Count(coerceBSON(bson.RawValue{Type: t, Value: data}))
	return nil
}

func coerceBSON(rv bson.RawValue) float64 {
	switch rv.Type {
	case bsontype.Double:
		return finite(rv.Double())
	case bsontype.Int32:
		return float64(rv.Int32())
	case bsontype.Int64:
		return float64(rv.Int64())
	case bsontype.String:
		return parseFloat(rv.StringValue())
	case bsontype.Decimal128:
		return parseFloat(rv.Decimal128().String())
	}
	return 0
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
