package pipeline

import (
	"github.com/matzehuels/bargroup/pkg/bargroup"
	"github.com/matzehuels/bargroup/pkg/errors"
	"github.com/matzehuels/bargroup/pkg/render/sink"
)

// Render paints e in one format.
func Render(e *bargroup.Engine, format string, opts Options) ([]byte, error) {
	sinkOpts := sinkOptions(opts)
	switch format {
	case FormatSVG:
		return sink.RenderSVG(e, sinkOpts...)
	case FormatPNG:
		return sink.RenderPNG(e, sinkOpts...)
	case FormatPDF:
		return sink.RenderPDF(e, sinkOpts...)
	case FormatJSON:
		return sink.RenderJSON(e, sinkOpts...)
	case FormatTerminal:
		out, err := sink.RenderTerminal(e, sinkOpts...)
		return []byte(out), err
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension (without dot) used for a format.
func Extension(format string) string {
	if format == FormatTerminal {
		return "txt"
	}
	return format
}

func sinkOptions(opts Options) []sink.Option {
	out := []sink.Option{sink.WithScale(opts.Scale)}
	if opts.Title != "" {
		out = append(out, sink.WithTitle(opts.Title))
	}
	if bg, _ := opts.backgroundColor(); bg != nil {
		out = append(out, sink.WithBackground(bg))
	}
	return out
}
