// Package influxdb provides optional time-series telemetry for Auralis Core.
//
// When enabled, every derived or client-issued music command is recorded as
// a point in InfluxDB, tagged by zone and action. This gives a queryable
// history of what the automation decided and when, without coupling the
// command path to the database (writes are non-blocking and batched).
//
// Presence/occupancy history is intentionally not written here; the zone
// store is in-memory only.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    // telemetry is optional, log and continue
//	}
//	defer client.Close()
//
//	client.WriteCommandEvent("zone1", "play", "mqtt")
package influxdb
