// Package mqtt provides MQTT client connectivity for the Doorman bridge.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Lock state and event publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The bridge publishes authoritative lock state and individual history
// events onto the broker; home-automation consumers subscribe rather
// than poll the vendor cloud themselves. The bridge is publish-only:
// remote lock/unlock commands are unsupported, so there is no command
// topic to subscribe to.
//
//	Yale cloud → Doorman bridge → MQTT Broker → consumers
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.LockState("lock-front-door")
//	client.PublishRetained(topic, payload)
package mqtt
