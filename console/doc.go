// Package console is the local HTTP API for voicedoc: sign-in, one-time
// setup, recording control and an event stream of pipeline snapshots.
//
//	POST   /api/auth/register   {email, password}
//	POST   /api/auth/login      {email, password} -> session with token
//	POST   /api/auth/logout
//	GET    /api/auth/session
//	GET    /api/config          key masked
//	PUT    /api/config          {transcriptionApiKey, deliveryWebhookUrl}
//	DELETE /api/config
//	GET    /api/recording
//	POST   /api/recording/start
//	POST   /api/recording/stop  202, outcome via /api/events
//	POST   /api/recording/reset
//	GET    /api/events          text/event-stream
//
// Everything except register and login needs a bearer token.
package console
