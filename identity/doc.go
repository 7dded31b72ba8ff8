// Package identity implements the local identity provider: account
// registration, credential checks and a single signed-in session whose
// changes are published as SIGNED_IN and SIGNED_OUT events.
package identity
