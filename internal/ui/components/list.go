package components

// List is a simple scrollable list with cursor.
type List struct {
	Items    []string
	Cursor   int
	Offset   int
	PageSize int
}

// NewList creates a list with the given page size.
func NewList(pageSize int) *List {
	if pageSize < 1 {
		pageSize = 1
	}
	return &List{PageSize: pageSize}
}

// SetItems replaces items, keeping the cursor where it was when it still fits.
func (l *List) SetItems(items []string) {
	l.Items = items
	l.clamp()
}

// SetPageSize changes how many items are visible at once.
func (l *List) SetPageSize(n int) {
	if n < 1 {
		n = 1
	}
	l.PageSize = n
	l.clamp()
}

// Down moves the cursor down.
func (l *List) Down() {
	if l.Cursor < len(l.Items)-1 {
		l.Cursor++
		if l.Cursor >= l.Offset+l.PageSize {
			l.Offset++
		}
	}
}

// Up moves the cursor up.
func (l *List) Up() {
	if l.Cursor > 0 {
		l.Cursor--
		if l.Cursor < l.Offset {
			l.Offset--
		}
	}
}

// Select puts the cursor on idx, scrolling it into view.
func (l *List) Select(idx int) {
	if idx < 0 || idx >= len(l.Items) {
		return
	}
	l.Cursor = idx
	l.clamp()
}

// VisibleRange returns the [start, end) indexes currently on screen.
func (l *List) VisibleRange() (int, int) {
	end := l.Offset + l.PageSize
	if end > len(l.Items) {
		end = len(l.Items)
	}
	return l.Offset, end
}

// Selected returns the index of the selected item.
func (l *List) Selected() int {
	return l.Cursor
}

func (l *List) clamp() {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.Offset = 0
		return
	}
	if l.Cursor >= len(l.Items) {
		l.Cursor = len(l.Items) - 1
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+l.PageSize {
		l.Offset = l.Cursor - l.PageSize + 1
	}
	if maxOffset := len(l.Items) - l.PageSize; l.Offset > maxOffset {
		l.Offset = max(0, maxOffset)
	}
}
