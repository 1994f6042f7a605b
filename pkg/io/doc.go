// Package io reads and writes chart documents.
//
// A chart document is a table of values plus the settings needed to lay it
// out: canvas size, bar width, group placement and the row palette. Two
// formats are supported.
//
// # TOML
//
//	title = "Regional sales"
//	width = 120
//	height = 60
//	bar_width = 10
//	placement = "legacy"
//	colors = ["red", "#0000ff"]
//	columns = ["Q1", "Q2", "Q3"]
//
//	[[rows]]
//	label = "north"
//	values = [5, 2, 0]
//
//	[[rows]]
//	label = "south"
//	values = [10, 8, 10]
//
// Every row must have the same number of values. Unknown keys are rejected
// so typos do not silently fall back to defaults.
//
// # CSV
//
// The first record is a header: its first cell is ignored and the remaining
// cells label the columns. Every following record is a row label followed by
// that row's values. CSV documents carry no settings; hosts apply defaults.
//
//	series,Q1,Q2,Q3
//	north,5,2,0
//	south,10,8,10
package io
