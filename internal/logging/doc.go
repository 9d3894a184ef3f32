// Package logging writes the browser's debug log as JSON lines through
// log/slog and reads it back for `boatrental logs`.
//
// Loggers are scoped with WithComponent, WithChannel and WithBoat so that a
// single file can be narrowed to one view, bus channel or boat later on:
//
//	log := logger.WithComponent("detail").WithBoat("b-sea-breeze")
//	log.Debug("fetch started", "generation", 3)
//	// {"time":"...","level":"DEBUG","msg":"fetch started","component":"detail","boat_id":"b-sea-breeze","generation":3}
//
// The file lives at <config dir>/logs/debug.log and is rotated by size
// (see RotationConfig). Tests use NopLogger or NewWriterLogger over a buffer.
package logging
