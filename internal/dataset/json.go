package dataset

import (
	"fmt"

	"github.com/valyala/fastjson"

	"github.com/stockscreen/screener/internal/filter"
)

var jsonParsers fastjson.ParserPool

// ParseJSON reads either an array of objects or a single object.
// Numbers stay float64, strings stay strings, and nested values are dropped.
func ParseJSON(data []byte) ([]Row, error) {
	p := jsonParsers.Get()
	defer jsonParsers.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var values []*fastjson.Value
	switch v.Type() {
	case fastjson.TypeArray:
		values, _ = v.Array()
	case fastjson.TypeObject:
		values = []*fastjson.Value{v}
	default:
		return nil, fmt.Errorf("invalid JSON: expected an object or an array of objects, got %s", v.Type())
	}

	records := make([]filter.Record, 0, len(values))
	for i, val := range values {
		obj, err := val.Object()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: element %d is not an object", i)
		}
		rec := make(filter.Record, obj.Len())
		obj.Visit(func(key []byte, fv *fastjson.Value) {
			switch fv.Type() {
			case fastjson.TypeNumber:
				rec[string(key)] = fv.GetFloat64()
			case fastjson.TypeString:
				rec[string(key)] = string(fv.GetStringBytes())
			case fastjson.TypeNull:
				rec[string(key)] = nil
			}
		})
		records = append(records, rec)
	}

	return toRows("json", records), nil
}
