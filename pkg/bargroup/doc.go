// Package bargroup lays out a grouped bar chart inside a rectangular canvas.
//
// # Overview
//
// An [Engine] is bound to one [series.Series] for its whole life. Rows of the
// series are the bars inside a group, columns are the groups. The engine owns
// exactly Rows()*Columns() [Element] values, ordered column-major: every row
// of column 0, then every row of column 1, and so on.
//
// Hosts drive the engine with three kinds of calls, always from one goroutine:
//
//   - [Engine.Resize] sets the canvas and recomputes bar geometry.
//   - [Engine.DataChanged] re-reads the series after it was mutated.
//   - [Engine.Paint] forwards a paint pass to every bar, but only when
//     something changed since the last successful pass.
//
// # Layout
//
// Bar heights scale linearly against the series maximum: a value v is drawn
// v*H/max units tall. Bars stand on the bottom edge of the canvas; each bar's
// position is its bottom-left corner and [Bar.Rect] extends upward from there.
//
// Groups are spread horizontally with a pitch of W/(C+1). The default
// [PlacementLegacy] adds the historical offset (W + bw*R)/(2C) to every group;
// [PlacementCentered] centers each group in a W/C slot instead.
//
// # Errors
//
// Layout invariant violations never surface as silent corruption:
//
//   - Resize or SetBarWidth with a negative or non-finite size fails with INVALID_SIZE.
//   - A row without a palette entry fails with PALETTE_UNDERFLOW unless a
//     fallback color was configured with [WithFallbackColor].
//   - A series whose TotalItems disagrees with Rows*Columns fails with SERIES_MISMATCH.
//   - Painting before the first successful Resize returns [ErrNotReady].
//
// A maximum of zero (or an all-negative series) lays out every bar with zero
// height instead of dividing by zero; [Stats.ScaleFallback] reports it.
package bargroup
