package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteDispatchMetric records one dispatch outcome.
//
// The point is batched and sent asynchronously; this never blocks the
// dispatch path.
//
// Parameters:
//   - domain: the service domain (e.g., "light")
//   - action: the service action (e.g., "turn_on")
//   - kind: the routing branch name (e.g., "ordinary", "virtual_debug")
//   - code: the result code (HTTP status, synthetic 200, or 0)
//   - duration: how long the dispatch took
func (c *Client) WriteDispatchMetric(domain, action, kind string, code int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"dispatch",
		map[string]string{
			"domain": domain,
			"action": action,
			"kind":   kind,
		},
		map[string]interface{}{
			"code":        code,
			"duration_ms": float64(duration.Microseconds()) / 1000.0,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}

// Flush forces all pending writes to be sent. Useful before shutdown.
func (c *Client) Flush() {
	if c.writeAPI == nil || !c.IsConnected() {
		return
	}
	c.writeAPI.Flush()
}
