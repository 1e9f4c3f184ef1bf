package runner

import (
	"fmt"

	"github.com/notargets/ddc/chunk"
	"github.com/notargets/ddc/runner/builder"
)

// BindSpan makes a device span available to kernels defined afterwards.
// Kernels reach it through name(uids...) and name_AT(positions...), with
// arguments in the span's tag order. Read-only spans are passed as const.
func BindSpan[T any](kr *Runner, name string, s chunk.ChunkSpan[T]) error {
	dt := DataTypeOf[T]()
	if dt == 0 {
		var zero T
		return fmt.Errorf("span %s: element type %T cannot be passed to a kernel", name, zero)
	}
	ds, ok := s.Space().(chunk.DeviceSpace)
	if !ok {
		return fmt.Errorf("span %s lives in %s, not on a device", name, s.Space().Name())
	}
	if ds.Device != kr.Device {
		return fmt.Errorf("span %s lives on another device", name)
	}

	sd := s.Strided()
	front, steps, strides := sd.Front(), sd.Strides(), s.Strides()
	dims := make([]builder.SpanDim, s.Rank())
	for i, tag := range s.Tags() {
		dims[i] = builder.SpanDim{
			Name:   tag.TagName(),
			Front:  front.UidAt(i),
			Step:   steps.At(i),
			Stride: strides[i],
		}
	}
	spec := builder.SpanSpec{
		Name:     name,
		DataType: dt,
		Dims:     dims,
		Base:     s.Base(),
		IsConst:  s.ReadOnly(),
	}
	if err := kr.AddSpan(spec); err != nil {
		return fmt.Errorf("failed to bind span: %w", err)
	}
	kr.spanMemory[name] = s.DeviceMemory()
	return nil
}

// BindScalar passes v by value to kernels defined afterwards. Binding an
// existing name updates the value seen by later launches.
func (kr *Runner) BindScalar(name string, v interface{}) error {
	if i, ok := v.(int); ok {
		v = int64(i)
	}
	dt := GetDataTypeFromSample(v)
	if dt == 0 {
		return fmt.Errorf("scalar %s: type %T cannot be passed to a kernel", name, v)
	}
	for _, s := range kr.Scalars {
		if s.Name == name && s.DataType != dt {
			return fmt.Errorf("scalar %s was bound as %s, not %s", name, TypeName(s.DataType), TypeName(dt))
		}
	}
	if err := kr.AddScalar(builder.ScalarSpec{Name: name, DataType: dt}); err != nil {
		return fmt.Errorf("failed to bind scalar: %w", err)
	}
	kr.scalarValues[name] = v
	return nil
}
