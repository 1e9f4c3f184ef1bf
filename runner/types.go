package runner

import (
	"github.com/notargets/ddc/runner/builder"
)

// SizeOfType returns the size in bytes of a data type
func SizeOfType(dt builder.DataType) int64 {
	switch dt {
	case builder.Float32, builder.INT32:
		return 4
	default:
		return 8
	}
}

// TypeName returns the C type name for a given DataType
func TypeName(dt builder.DataType) string {
	return builder.CTypeName(dt)
}

// GetDataTypeFromSample returns the DataType based on a sample value, or 0
// for types kernels cannot take
func GetDataTypeFromSample(sample interface{}) builder.DataType {
	switch sample.(type) {
	case float32:
		return builder.Float32
	case float64:
		return builder.Float64
	case int32:
		return builder.INT32
	case int64:
		return builder.INT64
	default:
		return 0
	}
}

// DataTypeOf returns the DataType of T, or 0
func DataTypeOf[T any]() builder.DataType {
	var zero T
	return GetDataTypeFromSample(zero)
}
