// Package recording orchestrates one voice request from microphone to
// webhook.
//
//	p, _ := recording.New(capturer, transcriber, deliverer, settingsStore, log)
//	sub := p.Subscribe(func(s recording.Snapshot) { ... })
//	defer sub.Unsubscribe()
//
//	_ = p.Start(ctx)
//	done, _ := p.Stop(ctx)
//	final := <-done
//	_ = p.Reset()
package recording
