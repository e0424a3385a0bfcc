package domain

// CloneStrPtr returns an independent copy of p.
func CloneStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// StrPtrEqual compares two optional strings by value. nil and "" differ.
func StrPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
