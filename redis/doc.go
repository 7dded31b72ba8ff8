// Package redis wraps go-redis with voicedoc logging and config
// conventions. The kvstore redis backend is built on it.
package redis
