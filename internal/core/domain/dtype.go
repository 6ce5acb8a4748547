package domain

//go:generate go tool stringer -type=DType -linecomment -output=dtype_string.go

// DType is the element type a tensor advertises. The reference backend keeps
// every element as float64; DType is metadata carried through collectives.
type DType int

// Element types.
const (
	DTypeUndefined DType = iota // undefined
	DTypeFloat32                // float32
	DTypeFloat16                // float16
	DTypeBFloat16               // bfloat16
	DTypeInt64                  // int64
	DTypeInt32                  // int32
	DTypeInt8                   // int8
	DTypeBool                   // bool
)

// ParseDType returns the DType spelled s.
func ParseDType(s string) (DType, bool) {
	for d := DTypeFloat32; d <= DTypeBool; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return DTypeUndefined, false
}
