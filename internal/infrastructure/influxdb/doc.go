// Package influxdb records dispatch telemetry in InfluxDB.
//
// Each dispatch writes one point: which routing branch handled it, the
// result code, and how long it took. Telemetry is optional (influxdb
// disabled in configuration means no client) and must never slow the
// dispatch path, so writes are non-blocking and batched.
package influxdb
