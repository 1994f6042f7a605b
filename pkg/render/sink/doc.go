// Package sink renders a laid-out bar group to output formats.
//
// Every sink implements [bargroup.Painter] for its backend and drives a full
// paint pass: the engine is invalidated and painted so the artifact always
// contains every bar, regardless of what a previous pass already drew.
//
//	svg, err := sink.RenderSVG(engine, sink.WithTitle("Sales"))
//	png, err := sink.RenderPNG(engine, sink.WithScale(2))
//	pdf, err := sink.RenderPDF(engine)
//
// The canvas is the engine's bounding rectangle offset by its position.
// Bars of negative values hang below the baseline and may fall outside it.
//
// [RenderJSON] serializes the computed geometry instead of painting it, and
// [RenderTerminal] paints into a grid of lipgloss-styled character cells.
package sink
