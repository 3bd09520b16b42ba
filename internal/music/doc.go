// Package music owns the music command contract and the command router.
//
// Commands flow into the router from three sources: the automation rules
// (reacting to presence), WebSocket clients, and the HTTP API. The router
// validates each command, publishes it on the music control topic for the
// players, and records it in the audit trail off the hot path.
//
// Core never talks to music players directly; the MQTT topic is the only
// command channel, so players, dashboards, and Core all observe the same
// stream.
package music
