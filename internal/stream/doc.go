// Package stream serves the explorer over a websocket.
//
// Each connection owns an engine and a view controller. Clients send
// Command values as JSON text messages; the server answers every frame with
// a Status text message followed by the PNG-encoded image as a binary
// message. Prometheus metrics for every session are exposed on /metrics.
package stream
