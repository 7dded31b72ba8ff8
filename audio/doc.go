// Package audio captures microphone input as a sequence of encoded chunks
// and concatenates them into a single payload when recording stops.
//
// A Device opens the input; the Capturer owns the resulting Track for one
// recording span and guarantees it is released exactly once.
//
//	dev, _ := audio.NewDevice(reg, cfg)
//	capt := audio.NewCapturer(dev, log)
//	_ = capt.Start(ctx)
//	payload, err := capt.Stop(ctx)
package audio
