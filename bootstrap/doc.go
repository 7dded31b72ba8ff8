// Package bootstrap runs a voicedoc binary's components through startup and
// graceful shutdown.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(storeComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    // wire business objects
//	    return nil
//	})
//	err = app.Run(ctx)        // long-running console
//	err = app.RunTask(ctx, f) // terminal session
package bootstrap
