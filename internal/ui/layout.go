package ui

// Minimum terminal size for the editor.
const (
	MinCols = 60
	MinRows = 16
)

// DetermineLayoutMode puts output beside the editor on wide terminals and
// below it otherwise.
func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < MinCols || rows < MinRows {
		return LayoutTooSmall
	}
	if cols >= 110 {
		return LayoutWide
	}
	return LayoutStacked
}
