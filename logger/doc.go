// Package logger provides structured logging for fusekit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component- or stage-scoped loggers with structured fields. Interpreters
// log stage terminations at debug level, protocol violations at warn and
// stream failures at error.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("interpreter").WithRun(runID)
//	log.Debug("stage finished", logger.Fields(logger.FieldStage, "take"))
package logger
