// Package presence turns broker messages into state changes and fan-out.
//
// The handler is the single consumer of the subscribed topics. For each
// presence event it updates the zone store, derives the music command,
// hands the command to the router, and pushes the new state to zone
// subscribers. Control and playlist messages seen on the bus are mirrored
// to their zone's subscribers so dashboards stay in sync regardless of
// who issued the command.
//
// The handler runs synchronously inside the MQTT delivery callback, so
// per-zone events are processed in broker delivery order. A decode
// failure or unknown zone drops only that message.
package presence
