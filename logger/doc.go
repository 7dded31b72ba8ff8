// Package logger provides structured logging for voicedoc using zerolog.
//
// Loggers are scoped per component and carry structured fields:
//
//	log := logger.WithComponent("recording")
//	log.Info("cycle started", logger.Fields(logger.FieldCycleID, id))
//
// The global logger is configured once at startup from the logging section
// of the service config.
package logger
