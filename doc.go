// Package emgfx is an animation and image compositor for small RGB565
// displays: a retained scene of image, label and animation objects rendered
// in horizontal stripes into a double-buffered framebuffer and handed to a
// display driver through a flush callback.
//
// # Overview
//
// An Engine owns the scene. Objects are created attached to it, positioned
// absolutely or by one of the 21 alignment anchors, and drawn back to front
// in creation order on every refresh:
//
//	e, _ := emgfx.NewEngine(
//		emgfx.WithResolution(240, 240),
//		emgfx.WithFlush(func(x1, y1, x2, y2 int, pix []uint16) {
//			panel.Draw(x1, y1, x2, y2, pix)
//		}),
//	)
//
//	a := emgfx.NewAnimation(e)
//	a.SetSource(assetBytes)        // an AAF container, see the aaf package
//	a.SetSegment(0, 29, 25, true)  // frames 0..29 at 25 fps, looping
//	a.Start()
//
//	e.Run(ctx) // tick timers and refresh until ctx is done
//
// Animation frames are decoded lazily, one compressed block at a time, with
// a single-entry block cache per object; a malformed block degrades to a
// blank strip instead of failing the frame. Labels rasterize text through
// the text subpackage's font registry; images blend RGB565+A8 descriptors.
//
// # Concurrency
//
// The core performs no threading of its own. All object mutation and
// drawing must be serialized by the caller; Engine.Lock and Engine.Unlock
// expose the engine lock, and Engine.Run takes it around every tick.
// Flush callbacks may complete asynchronously and signal with
// Engine.FlushReady.
package emgfx
