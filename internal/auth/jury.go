package auth

// CategoryScope is a jury member's category-access scope. A nil scope means
// unrestricted access (core jury); a non-nil scope restricts voting to the
// listed category ids (category jury). An empty non-nil scope allows nothing.
type CategoryScope []string

// AllCategories is the unrestricted scope held by core jury members.
var AllCategories CategoryScope = nil

// RestrictedTo builds a scope limited to the given category ids.
func RestrictedTo(categoryIDs ...string) CategoryScope {
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	return CategoryScope(categoryIDs)
}

// Allows reports whether the scope permits voting in the given category.
func (s CategoryScope) Allows(categoryID string) bool {
	if s == nil {
		return true
	}
	for _, id := range s {
		if id == categoryID {
			return true
		}
	}
	return false
}
