package series

// Series is a read-only table of values organized as rows × columns.
//
// TotalItems is expected to equal Rows()*Columns(); consumers validate it
// rather than trust it, since third-party implementations may disagree.
// Max and Min bound every value returned by ValueAt for the current contents.
type Series interface {
	Max() float64
	Min() float64
	Rows() int
	Columns() int
	TotalItems() int
	ValueAt(row, col int) float64
}
