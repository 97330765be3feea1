package emgfx

import (
	"github.com/emgfx/emgfx/aaf"
	"github.com/emgfx/emgfx/text"
)

// Option configures an Engine during creation.
//
// Example:
//
//	e, err := emgfx.NewEngine(
//		emgfx.WithResolution(240, 240),
//		emgfx.WithFlush(panel.Flush),
//		emgfx.WithSwapBytes(true),
//	)
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	width, height int
	fps           int
	bufferLines   int
	swap          bool
	bg            Color
	flush         FlushFunc
	jpeg          aaf.JPEGDecoder
	fonts         *text.Registry
}

// defaultEngineOptions returns the defaults applied before user options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		width:  defaultScreenWidth,
		height: defaultScreenHeight,
		fps:    defaultEngineFPS,
	}
}

// WithResolution sets the display size in pixels.
func WithResolution(width, height int) Option {
	return func(o *engineOptions) {
		o.width = width
		o.height = height
	}
}

// WithFlush installs the callback that pushes finished stripes to the
// display. The engine waits for FlushReady before reusing a buffer, so the
// callback may hand the pixels to DMA and return immediately.
func WithFlush(fn FlushFunc) Option {
	return func(o *engineOptions) { o.flush = fn }
}

// WithSwapBytes renders every pixel with its two bytes exchanged, for
// panels that consume RGB565 big-endian over SPI.
func WithSwapBytes(swap bool) Option {
	return func(o *engineOptions) { o.swap = swap }
}

// WithBackground sets the color stripes are cleared to before drawing.
func WithBackground(c Color) Option {
	return func(o *engineOptions) { o.bg = c }
}

// WithFPS sets the target refresh rate of the run loop.
func WithFPS(fps int) Option {
	return func(o *engineOptions) { o.fps = fps }
}

// WithBuffers sets the stripe height in rows. The engine allocates two
// stripe buffers of width*lines pixels and alternates between them, so a
// flush can still be in flight while the next stripe renders.
func WithBuffers(lines int) Option {
	return func(o *engineOptions) { o.bufferLines = lines }
}

// WithJPEGDecoder installs the decoder used for JPEG-encoded animation
// blocks. Without one, JPEG blocks fail to decode and render as gaps.
func WithJPEGDecoder(dec aaf.JPEGDecoder) Option {
	return func(o *engineOptions) { o.jpeg = dec }
}

// WithFontRegistry shares a prepared font registry instead of the default
// one holding only the built-in face. Useful when several engines render
// with the same fonts.
func WithFontRegistry(r *text.Registry) Option {
	return func(o *engineOptions) { o.fonts = r }
}
