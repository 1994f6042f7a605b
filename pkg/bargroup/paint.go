package bargroup

// Paint forwards a paint pass to every element in column-major order.
//
// Before the first successful Resize it touches nothing, logs a warning and
// returns [ErrNotReady]. When nothing changed since the last successful pass
// it does nothing. The first element error aborts the pass and leaves the
// engine dirty so the next call retries.
func (e *Engine) Paint(p Painter) error {
	if !e.layoutSet {
		e.logger.Warn("paint called without layout set, aborting")
		return ErrNotReady
	}
	if !e.dirty {
		return nil
	}
	for _, el := range e.elems {
		if err := el.Paint(p); err != nil {
			return err
		}
	}
	e.dirty = false
	return nil
}

// Invalidate marks the engine dirty so the next Paint repaints every bar.
// Hosts call it when their frame buffer was discarded.
func (e *Engine) Invalidate() { e.dirty = true }
