package blueprint

// FlattenRoot resolves the descriptors of a blueprint without an ancestor.
// The result is exactly the own descriptors in authored order, appended to dst.
func FlattenRoot(dst []Descriptor, own []Descriptor) []Descriptor {
	return append(dst, own...)
}

// Flatten resolves the own descriptors of a blueprint against the resolved
// descriptors of its ancestor and appends the result to dst.
//
// The inherited descriptors are walked in order. Each one is replaced by the first
// own descriptor that overrides it, or carried over unchanged if none does.
// An own descriptor that overrides nothing is not part of the result: a derived
// blueprint can only replace inherited descriptors, new descriptors must be
// declared by the root of the chain.
//
// Pass a reusable dst buffer to avoid allocations, Flatten keeps no reference to it.
func Flatten(dst []Descriptor, own []Descriptor, inherited []Descriptor) []Descriptor {
	for _, inheritedDescriptor := range inherited {
		effective := inheritedDescriptor

		for _, candidate := range own {
			if candidate.Overrides(inheritedDescriptor) {
				effective = candidate
				break
			}
		}

		dst = append(dst, effective)
	}

	return dst
}
