package output

import (
	"io"

	"github.com/windatlas/windatlas/internal/graph"
	"github.com/windatlas/windatlas/internal/report"
)

func init() {
	RegisterFormatter(&TableFormatter{})
}

// TableFormatter writes a view as aligned terminal tables.
type TableFormatter struct{}

var _ Formatter = (*TableFormatter)(nil)

// Name returns the format name.
func (t *TableFormatter) Name() string { return "table" }

// Format writes the view to w.
func (t *TableFormatter) Format(v *graph.View, w io.Writer) error {
	return report.RenderView(w, v)
}
