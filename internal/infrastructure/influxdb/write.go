package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteCommandEvent records a music command in the time-series store.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - zone: Zone the command targets (e.g. "zone1")
//   - action: Command action ("play" or "stop")
//   - source: Where the command originated ("automation", "websocket", "api")
//
// Example:
//
//	client.WriteCommandEvent("zone1", "play", "automation")
func (c *Client) WriteCommandEvent(zone, action, source string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"music_commands",
		map[string]string{
			"zone":   zone,
			"action": action,
			"source": source,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
