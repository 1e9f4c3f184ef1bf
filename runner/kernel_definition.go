package runner

import (
	"fmt"
	"slices"

	"github.com/notargets/ddc/runner/builder"
)

// KernelDefinition records the arguments a compiled kernel expects
type KernelDefinition struct {
	Name      string
	Spans     []string
	Scalars   []string
	Layouts   []builder.SpanSpec // Span addressing compiled into Source
	Signature string
	Source    string
}

// DefineKernel wraps body in the partitioned domain loop and compiles it
// against the spans and scalars bound so far
func (kr *Runner) DefineKernel(kernelName, body string) error {
	def := &KernelDefinition{
		Name:      kernelName,
		Signature: kr.GenerateKernelSignature(),
		Source:    kr.GenerateKernelTemplate(kernelName, body),
	}
	for _, s := range kr.Spans {
		def.Spans = append(def.Spans, s.Name)
		s.Dims = slices.Clone(s.Dims)
		def.Layouts = append(def.Layouts, s)
	}
	for _, s := range kr.Scalars {
		def.Scalars = append(def.Scalars, s.Name)
	}

	if _, err := kr.BuildKernel(def.Source, kernelName); err != nil {
		return err
	}
	kr.kernelDefinitions[kernelName] = def
	return nil
}

// RunKernel launches a defined kernel over the whole domain and waits for it
func (kr *Runner) RunKernel(kernelName string) error {
	def, exists := kr.kernelDefinitions[kernelName]
	if !exists {
		return fmt.Errorf("kernel %s not defined - use DefineKernel first", kernelName)
	}
	kernel, exists := kr.Kernels[kernelName]
	if !exists {
		return fmt.Errorf("kernel %s not compiled", kernelName)
	}
	for _, l := range def.Layouts {
		cur, ok := kr.Span(l.Name)
		if !ok || !cur.SameLayout(l) {
			return fmt.Errorf("span %s was rebound with a different layout, redefine kernel %s",
				l.Name, kernelName)
		}
	}
	if kr.GetTotalElements() == 0 {
		return nil
	}

	args, err := kr.buildKernelArguments(def)
	if err != nil {
		return fmt.Errorf("failed to build arguments: %w", err)
	}

	if err := kernel.RunWithArgs(args...); err != nil {
		return fmt.Errorf("kernel execution failed: %w", err)
	}
	kr.Device.Finish()
	return nil
}

// ParallelForEach compiles body as kernelName and runs it once over the
// domain
func (kr *Runner) ParallelForEach(kernelName, body string) error {
	if err := kr.DefineKernel(kernelName, body); err != nil {
		return err
	}
	return kr.RunKernel(kernelName)
}

// buildKernelArguments constructs the argument list in signature order
func (kr *Runner) buildKernelArguments(def *KernelDefinition) ([]interface{}, error) {
	args := []interface{}{kr.PooledMemory["K"], kr.PooledMemory["Koffsets"]}

	for _, name := range def.Spans {
		mem, exists := kr.spanMemory[name]
		if !exists || mem == nil {
			return nil, fmt.Errorf("memory for span %s not found", name)
		}
		args = append(args, mem)
	}

	for _, name := range def.Scalars {
		v, exists := kr.scalarValues[name]
		if !exists {
			return nil, fmt.Errorf("no value provided for scalar %s", name)
		}
		args = append(args, v)
	}

	return args, nil
}

// GetKernelSignature returns the parameter list a defined kernel was
// compiled with
func (kr *Runner) GetKernelSignature(kernelName string) (string, error) {
	def, exists := kr.kernelDefinitions[kernelName]
	if !exists {
		return "", fmt.Errorf("kernel %s not defined", kernelName)
	}
	return def.Signature, nil
}
