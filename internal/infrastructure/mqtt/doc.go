// Package mqtt provides MQTT client connectivity for locmux.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// locmux uses MQTT as the transport between the policy core and the GPS
// tracker hardware. The broker decouples the core from the tracker's
// firmware: the tracker publishes fixes and authorization state, the core
// publishes device configuration and start/stop commands.
//
//	locmux core ↔ MQTT Broker ↔ GPS tracker
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topics := mqtt.TrackerTopics{Prefix: cfg.Tracker.TopicPrefix}
//
//	// Subscribe to tracker fixes
//	err = client.Subscribe(topics.Fixes(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish desired device configuration
//	client.PublishRetained(topics.Config(), cfgPayload)
package mqtt
