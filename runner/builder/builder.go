package builder

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// DataType represents the precision of numerical data
type DataType int

const (
	Float32 DataType = iota + 1
	Float64
	INT32
	INT64
)

// Builder generates OCCA sources that iterate a discrete domain split into
// partitions: one @outer iteration per partition, one @inner iteration per
// element, padded to KpartMax.
type Builder struct {
	// Partition configuration
	NumPartitions int
	K             []int
	KpartMax      int // Maximum K value across all partitions

	// Type configuration
	FloatType DataType
	IntType   DataType

	// Iteration domain, slowest dimension first
	Dims []Dim

	// Static data to embed
	StaticMatrices map[string]mat.Matrix

	// Kernel arguments in binding order
	Spans   []SpanSpec
	Scalars []ScalarSpec

	// Generated code
	KernelPreamble string
}

// Config holds configuration for creating a Builder
type Config struct {
	K         []int
	FloatType DataType
	IntType   DataType
}

// NewBuilder creates a new Builder instance
func NewBuilder(cfg Config) *Builder {
	if len(cfg.K) == 0 {
		panic("K array cannot be empty")
	}
	// Compute KpartMax
	kpartMax := 0
	for _, k := range cfg.K {
		if k < 0 {
			panic(fmt.Sprintf("negative partition size in K %v", cfg.K))
		}
		kpartMax = max(kpartMax, k)
	}
	// Set defaults
	floatType := cfg.FloatType
	if floatType == 0 {
		floatType = Float64
	}
	intType := cfg.IntType
	if intType == 0 {
		intType = INT64
	}
	kb := &Builder{
		NumPartitions:  len(cfg.K),
		K:              make([]int, len(cfg.K)),
		KpartMax:       kpartMax,
		FloatType:      floatType,
		IntType:        intType,
		StaticMatrices: make(map[string]mat.Matrix),
	}
	copy(kb.K, cfg.K)
	return kb
}

// AddStaticMatrix adds a matrix to be embedded as static const in kernels
func (kb *Builder) AddStaticMatrix(name string, m mat.Matrix) {
	kb.StaticMatrices[name] = m
}

// GetTotalElements returns sum of all K values
func (kb *Builder) GetTotalElements() int {
	total := 0
	for _, k := range kb.K {
		total += k
	}
	return total
}

// Offsets returns the first linear index of every partition
func (kb *Builder) Offsets() []int {
	offsets := make([]int, kb.NumPartitions)
	for i := 1; i < kb.NumPartitions; i++ {
		offsets[i] = offsets[i-1] + kb.K[i-1]
	}
	return offsets
}

// GetIntSize returns the size of the integer type in bytes
func (kb *Builder) GetIntSize() int {
	if kb.IntType == INT32 {
		return 4
	}
	return 8
}

// GeneratePreamble generates the kernel preamble with static data and
// accessor macros
func (kb *Builder) GeneratePreamble() string {
	var sb strings.Builder

	// 1. Type definitions and constants
	sb.WriteString(kb.generateTypeDefinitions())

	// 2. Iteration domain
	sb.WriteString(kb.generateDomainMacros())

	// 3. Static matrix declarations
	sb.WriteString(kb.generateStaticMatrices())

	// 4. Span accessors
	sb.WriteString(kb.generateSpanMacros())

	kb.KernelPreamble = sb.String()
	return kb.KernelPreamble
}

// generateTypeDefinitions creates type definitions based on precision settings
func (kb *Builder) generateTypeDefinitions() string {
	var sb strings.Builder

	floatSuffix := ""
	if kb.FloatType == Float32 {
		floatSuffix = "f"
	}

	sb.WriteString(fmt.Sprintf("typedef %s real_t;\n", CTypeName(kb.FloatType)))
	sb.WriteString(fmt.Sprintf("typedef %s int_t;\n", CTypeName(kb.IntType)))
	sb.WriteString(fmt.Sprintf("#define REAL_ZERO 0.0%s\n", floatSuffix))
	sb.WriteString(fmt.Sprintf("#define REAL_ONE 1.0%s\n", floatSuffix))
	sb.WriteString("\n")

	// Constants
	sb.WriteString(fmt.Sprintf("#define NPART %d\n", kb.NumPartitions))
	sb.WriteString(fmt.Sprintf("#define KpartMax %d\n", kb.KpartMax))
	sb.WriteString("\n")

	return sb.String()
}

// generateDomainMacros declares the bounds of every iterated dimension
func (kb *Builder) generateDomainMacros() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("#define RANK %d\n", len(kb.Dims)))
	for _, d := range kb.Dims {
		sb.WriteString(fmt.Sprintf("#define %s_FRONT %d\n", d.Name, d.Front))
		sb.WriteString(fmt.Sprintf("#define %s_COUNT %d\n", d.Name, d.Count))
		sb.WriteString(fmt.Sprintf("#define %s_STRIDE %d\n", d.Name, d.Stride))
		sb.WriteString(fmt.Sprintf("#define %s_BACK %d\n", d.Name, d.Back()))
	}
	sb.WriteString("\n")

	return sb.String()
}

// generateStaticMatrices converts matrices to static array initializations
func (kb *Builder) generateStaticMatrices() string {
	var sb strings.Builder

	if len(kb.StaticMatrices) > 0 {
		sb.WriteString("// Static matrices\n")
		for _, name := range sortedKeys(kb.StaticMatrices) {
			sb.WriteString(kb.formatStaticMatrix(name, kb.StaticMatrices[name]))
		}
	}

	return sb.String()
}

// formatStaticMatrix formats a single matrix as a static C array. The
// matrix is written transposed, so name[j][i] reads entry (i, j).
func (kb *Builder) formatStaticMatrix(name string, m mat.Matrix) string {
	rows, cols := m.Dims()
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("// Matrix %s stored in column-major format\n", name))
	sb.WriteString(fmt.Sprintf("const real_t %s[%d][%d] = {\n", name, cols, rows))

	for j := 0; j < cols; j++ {
		sb.WriteString("    {")
		for i := 0; i < rows; i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			val := m.At(i, j)
			if kb.FloatType == Float32 {
				sb.WriteString(fmt.Sprintf("%.7ef", val))
			} else {
				sb.WriteString(fmt.Sprintf("%.15e", val))
			}
		}
		sb.WriteString("}")
		if j < cols-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n\n")

	return sb.String()
}

// generateSpanMacros creates two accessors per span: NAME(uids...) reads
// through the span's fronts and steps, NAME_AT(positions...) through member
// positions. Arguments follow the span's storage order.
func (kb *Builder) generateSpanMacros() string {
	var sb strings.Builder

	if len(kb.Spans) > 0 {
		sb.WriteString("// Span accessors\n")
	}
	for _, s := range kb.Spans {
		args := make([]string, len(s.Dims))
		byUid := make([]string, 0, len(s.Dims)+1)
		byPos := make([]string, 0, len(s.Dims)+1)
		byUid = append(byUid, fmt.Sprintf("%d", s.Base))
		byPos = append(byPos, fmt.Sprintf("%d", s.Base))
		for i, d := range s.Dims {
			args[i] = fmt.Sprintf("a%d", i)
			pos := fmt.Sprintf("((a%d) - %d)", i, d.Front)
			if d.Step != 1 {
				pos = fmt.Sprintf("(%s / %d)", pos, d.Step)
			}
			byUid = append(byUid, fmt.Sprintf("%s * %d", pos, d.Stride))
			byPos = append(byPos, fmt.Sprintf("(a%d) * %d", i, d.Stride))
		}
		sb.WriteString(fmt.Sprintf("#define %s(%s) (%s[%s])\n",
			s.Name, strings.Join(args, ", "), s.DataName(), strings.Join(byUid, " + ")))
		sb.WriteString(fmt.Sprintf("#define %s_AT(%s) (%s[%s])\n",
			s.Name, strings.Join(args, ", "), s.DataName(), strings.Join(byPos, " + ")))
	}
	if len(kb.Spans) > 0 {
		sb.WriteString("\n")
	}

	return sb.String()
}

// CTypeName returns the C type name for a given DataType
func CTypeName(dt DataType) string {
	switch dt {
	case Float32:
		return "float"
	case INT32:
		return "int"
	case INT64:
		return "long"
	default:
		return "double"
	}
}
