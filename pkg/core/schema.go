package core

// DType is the logical data type of a column, normalized across
// backends. Backends map their native type systems onto these values.
type DType int

const (
	DTypeUnknown DType = iota
	DTypeInt64
	DTypeFloat64
	DTypeString
	DTypeBool
)

func (d DType) String() string {
	switch d {
	case DTypeInt64:
		return "int64"
	case DTypeFloat64:
		return "float64"
	case DTypeString:
		return "string"
	case DTypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Numeric reports whether the type participates in arithmetic.
func (d DType) Numeric() bool {
	return d == DTypeInt64 || d == DTypeFloat64
}

// Column describes one column of a frame.
type Column struct {
	Name string
	Type DType
}

// Schema is an ordered list of columns.
type Schema []Column

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the named column if present.
func (s Schema) Lookup(name string) (Column, bool) {
	if i := s.Index(name); i >= 0 {
		return s[i], true
	}
	return Column{}, false
}
