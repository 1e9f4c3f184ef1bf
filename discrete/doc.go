// Package discrete implements the dimension-tagged index algebra: tags,
// discrete elements (grid indices), discrete vectors (displacements and
// extents), rectangular discrete domains and strided discrete domains.
//
// Every value carries the ordered list of tags it is defined over. Values
// built over the same tags share the tag slice, so tag matching in hot loops
// is a slice identity check. Elements and vectors are fixed-size value types
// and never allocate when translated.
//
// Preconditions (negative extents, zero strides, duplicate tags, indices
// outside a domain) panic through utils.Assert, unless the module is built
// with the ddc_unchecked tag, in which case the behavior is unspecified.
package discrete
