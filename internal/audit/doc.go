// Package audit provides the music command audit trail.
//
// Every command that Core publishes to the music control topic, whether
// derived by the automation rules or issued by a client, is recorded in
// SQLite. The trail answers "why did the kitchen start playing at 3am"
// without needing broker logs.
//
// Writes happen off the command path via a buffered channel (see the
// router in internal/music); this package only owns the schema and the
// repository.
package audit
