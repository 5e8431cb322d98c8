// Package mqtt publishes Hearth dispatch events to an MQTT broker.
//
// The client is publish-only and optional: when mqtt.enabled is false in
// configuration, Connect returns ErrDisabled and the assistant simply
// skips event publishing. Events let other home-automation components
// observe assistant activity (which service was called, whether it
// succeeded, which virtual setting changed).
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil && !errors.Is(err, mqtt.ErrDisabled) {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.PublishJSON(client.EventTopic("dispatch"), event)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
package mqtt
