package present

// Option configures a Window at construction time.
type Option func(w *hostWindow)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(w *hostWindow) { w.title = title }
}

// WithSize sets the initial window size in pixels.
func WithSize(width, height int) Option {
	return func(w *hostWindow) { w.width, w.height = width, height }
}
