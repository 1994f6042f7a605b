package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/bargroup/pkg/bargroup"
	"github.com/matzehuels/bargroup/pkg/errors"
	chartio "github.com/matzehuels/bargroup/pkg/io"
	"github.com/matzehuels/bargroup/pkg/observability"
)

// NewEngine builds an engine for doc and lays it out at the option size.
//
// Zero options are filled from doc and then from the defaults. The returned
// engine is ready to paint; interactive hosts keep driving it with Resize
// and DataChanged.
func NewEngine(ctx context.Context, doc *chartio.Document, opts Options) (*bargroup.Engine, error) {
	if doc == nil || doc.Table == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no data")
	}
	opts.ApplyDocument(doc)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	palette, err := doc.Palette()
	if err != nil {
		return nil, err
	}
	placement, _ := bargroup.ParsePlacement(opts.Placement)
	engineOpts := []bargroup.Option{
		bargroup.WithPalette(palette...),
		bargroup.WithBarWidth(opts.BarWidth),
		bargroup.WithPlacement(placement),
		bargroup.WithLogger(opts.Logger),
	}
	if fb, _ := opts.fallbackColor(); fb != nil {
		engineOpts = append(engineOpts, bargroup.WithFallbackColor(fb))
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, doc.Table.Rows(), doc.Table.Columns())
	start := time.Now()

	e, err := bargroup.New(doc.Table, engineOpts...)
	if err == nil {
		err = e.Resize(opts.Width, opts.Height)
	}

	bars := 0
	if e != nil {
		bars = e.LastLayout().Bars
	}
	hooks.OnLayoutComplete(ctx, bars, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return e, nil
}
