// Package settings stores the user's Configuration: the transcription API
// key and the delivery webhook URL, saved as one JSON object under a single
// key of a kvstore.Store.
package settings
