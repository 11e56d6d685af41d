package ui

// Layout breakpoints for responsive design.
const (
	// BreakpointNarrow is the width below which rows drop the assignee column.
	BreakpointNarrow = 80

	// BreakpointMedium is the width above which rows show the age column.
	BreakpointMedium = 100

	// BreakpointWide is the width above which the preview opens beside the list.
	BreakpointWide = 140
)

// Chrome heights around the issue list.
const (
	headerHeight = 1
	footerHeight = 1

	// MinListHeight keeps the list usable when the chip bar wraps.
	MinListHeight = 3
)
