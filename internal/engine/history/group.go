package history

// Transaction runs fn inside a group named name, so the entries it pushes
// undo as one. Inside an open group fn joins that group instead of
// starting its own. Entries pushed before fn fails are still recorded and
// fn's error is returned.
func (h *History) Transaction(name string, fn func() error) error {
	if h.IsGrouping() {
		return fn()
	}
	h.BeginGroup(name)
	defer h.EndGroup()
	return fn()
}
