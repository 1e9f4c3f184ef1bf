package builder

import (
	"fmt"
	"regexp"
	"slices"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Dim is one iterated dimension of the kernel domain. Uids run
// Front, Front+Stride, ... for Count members.
type Dim struct {
	Name   string
	Front  int
	Count  int
	Stride int
}

// Back returns the last uid of the dimension
func (d Dim) Back() int {
	return d.Front + (d.Count-1)*d.Stride
}

// SpanDim describes how one dimension of a span maps uids to storage
type SpanDim struct {
	Name   string
	Front  int // Uid of the first member
	Step   int // Uid distance between members
	Stride int // Storage distance between members
}

// SpanSpec is a strided view over device memory passed to a kernel
type SpanSpec struct {
	Name     string
	DataType DataType
	Dims     []SpanDim // Storage order
	Base     int       // Storage index of the first member
	IsConst  bool
}

// DataName is the kernel argument holding the span's memory
func (s SpanSpec) DataName() string {
	return s.Name + "_data"
}

// SameLayout reports whether kernels compiled against s can address o
func (s SpanSpec) SameLayout(o SpanSpec) bool {
	return s.Name == o.Name && s.DataType == o.DataType && s.Base == o.Base &&
		s.IsConst == o.IsConst && slices.Equal(s.Dims, o.Dims)
}

// ScalarSpec is a by-value kernel argument
type ScalarSpec struct {
	Name     string
	DataType DataType
}

// SetDomain declares the iterated dimensions, slowest first. Their member
// counts must multiply to the total of K.
func (kb *Builder) SetDomain(dims []Dim) error {
	total := 1
	names := make([]string, 0, len(dims))
	for _, d := range dims {
		if err := validName(d.Name); err != nil {
			return err
		}
		if slices.Contains(names, d.Name) {
			return fmt.Errorf("dimension %s declared twice", d.Name)
		}
		if d.Count < 0 || d.Stride < 1 {
			return fmt.Errorf("dimension %s: invalid count %d or stride %d", d.Name, d.Count, d.Stride)
		}
		names = append(names, d.Name)
		total *= d.Count
	}
	if total != kb.GetTotalElements() {
		return fmt.Errorf("domain holds %d elements but partitions cover %d", total, kb.GetTotalElements())
	}
	kb.Dims = slices.Clone(dims)
	return nil
}

// AddSpan registers a span argument, replacing one with the same name
func (kb *Builder) AddSpan(s SpanSpec) error {
	if err := validName(s.Name); err != nil {
		return err
	}
	for _, d := range s.Dims {
		if err := validName(d.Name); err != nil {
			return err
		}
		if d.Step < 1 {
			return fmt.Errorf("span %s: invalid step %d along %s", s.Name, d.Step, d.Name)
		}
	}
	if kb.hasScalar(s.Name) {
		return fmt.Errorf("%s is already a scalar argument", s.Name)
	}
	s.Dims = slices.Clone(s.Dims)
	if i := kb.spanIndex(s.Name); i >= 0 {
		kb.Spans[i] = s
	} else {
		kb.Spans = append(kb.Spans, s)
	}
	return nil
}

// AddScalar registers a by-value argument
func (kb *Builder) AddScalar(s ScalarSpec) error {
	if err := validName(s.Name); err != nil {
		return err
	}
	if kb.spanIndex(s.Name) >= 0 {
		return fmt.Errorf("%s is already a span argument", s.Name)
	}
	if !kb.hasScalar(s.Name) {
		kb.Scalars = append(kb.Scalars, s)
	}
	return nil
}

// Span returns the registered span with the given name
func (kb *Builder) Span(name string) (SpanSpec, bool) {
	if i := kb.spanIndex(name); i >= 0 {
		return kb.Spans[i], true
	}
	return SpanSpec{}, false
}

func (kb *Builder) spanIndex(name string) int {
	return slices.IndexFunc(kb.Spans, func(s SpanSpec) bool { return s.Name == name })
}

func (kb *Builder) hasScalar(name string) bool {
	return slices.ContainsFunc(kb.Scalars, func(s ScalarSpec) bool { return s.Name == name })
}

func validName(name string) error {
	if !identifier.MatchString(name) {
		return fmt.Errorf("%q is not a valid kernel identifier", name)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
