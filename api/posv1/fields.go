package posv1

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// String returns the string at key. Numbers are formatted the way JSON writes them.
func String(s *structpb.Struct, key string) string {
	v := s.GetFields()[key]
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

// Number returns the finite number at key. Numeric strings are accepted; ok
// is false for anything else, including a missing key, NaN and infinities.
func Number(s *structpb.Struct, key string) (float64, bool) {
	var f float64
	v := s.GetFields()[key]
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		f = k.NumberValue
	case *structpb.Value_StringValue:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(k.StringValue), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func Bool(s *structpb.Struct, key string) bool {
	v := s.GetFields()[key]
	switch k := v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return k.BoolValue
	case *structpb.Value_StringValue:
		b, _ := strconv.ParseBool(k.StringValue)
		return b
	default:
		return false
	}
}

func Has(s *structpb.Struct, key string) bool {
	_, ok := s.GetFields()[key]
	return ok
}

// List returns the list at key, or nil.
func List(s *structpb.Struct, key string) []*structpb.Value {
	return s.GetFields()[key].GetListValue().GetValues()
}

// Encode converts any JSON-marshalable value into a Struct, honoring its json tags.
func Encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return out, nil
}

// Decode fills dst from a Struct through its JSON form.
func Decode(s *structpb.Struct, dst any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode struct: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode struct into %T: %w", dst, err)
	}
	return nil
}
