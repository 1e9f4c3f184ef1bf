package builder

import (
	"fmt"
	"strings"
)

// GenerateKernelSignature generates the parameter list for kernel functions
// from the registered spans and scalars
func (kb *Builder) GenerateKernelSignature() string {
	var params []string

	// Partition sizes and first linear index are always first
	params = append(params, "const int_t* K", "const int_t* Koffsets")

	for _, s := range kb.Spans {
		constQualifier := ""
		if s.IsConst {
			constQualifier = "const "
		}
		params = append(params, fmt.Sprintf("%s%s* %s", constQualifier, CTypeName(s.DataType), s.DataName()))
	}

	for _, s := range kb.Scalars {
		params = append(params, fmt.Sprintf("const %s %s", CTypeName(s.DataType), s.Name))
	}

	return strings.Join(params, ",\n\t")
}

// GenerateKernelDeclaration generates a complete kernel function declaration
func (kb *Builder) GenerateKernelDeclaration(kernelName string) string {
	return fmt.Sprintf("@kernel void %s(\n\t%s\n)",
		kernelName,
		kb.GenerateKernelSignature())
}

// GenerateKernelTemplate wraps body in the partitioned loop over the domain.
// Inside body, i_<Dim> holds the uid and m_<Dim> the member position of
// the current element along every dimension.
func (kb *Builder) GenerateKernelTemplate(kernelName string, body string) string {
	var sb strings.Builder

	sb.WriteString(kb.GenerateKernelDeclaration(kernelName))
	sb.WriteString(" {\n")
	sb.WriteString("\tfor (int part = 0; part < NPART; ++part; @outer) {\n")
	sb.WriteString("\t\tfor (int elem = 0; elem < KpartMax; ++elem; @inner) {\n")
	sb.WriteString("\t\t\tif (elem < K[part]) {\n")
	sb.WriteString("\t\t\t\tint_t lin = Koffsets[part] + elem;\n")

	// Unravel the linear index, last dimension fastest
	for i := len(kb.Dims) - 1; i >= 0; i-- {
		d := kb.Dims[i]
		sb.WriteString(fmt.Sprintf("\t\t\t\tconst int_t m_%s = lin %% %s_COUNT;\n", d.Name, d.Name))
		sb.WriteString(fmt.Sprintf("\t\t\t\tconst int_t i_%s = %s_FRONT + m_%s * %s_STRIDE;\n",
			d.Name, d.Name, d.Name, d.Name))
		if i > 0 {
			sb.WriteString(fmt.Sprintf("\t\t\t\tlin /= %s_COUNT;\n", d.Name))
		}
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			sb.WriteString("\t\t\t\t")
			sb.WriteString(strings.TrimSpace(line))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\t\t\t}\n")
	sb.WriteString("\t\t}\n")
	sb.WriteString("\t}\n")
	sb.WriteString("}\n")

	return sb.String()
}
