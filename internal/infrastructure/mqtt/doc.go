// Package mqtt provides MQTT client connectivity for Auralis Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect and capped backoff
//   - Message publishing with QoS guarantees
//   - Topic subscriptions, restored automatically after reconnect
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// MQTT is the message bus connecting Auralis Core to the presence sensors
// and music players at the edges:
//
//	Presence Sensors → MQTT Broker → Auralis Core → MQTT Broker → Music Players
//
// Inbound topics are decoded once at this boundary into a typed Kind
// (see ParseTopic); downstream components never re-parse topic strings.
//
// # Ordering
//
// The paho client delivers messages for a subscription in publish order and
// invokes handlers synchronously, so per-zone presence events reach the
// event handler in the order the broker delivered them. Do not enable
// unordered delivery on the client options.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.AllPresence(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	client.Publish(mqtt.TopicMusicControl, []byte(`{"zone":"zone1","action":"play"}`), 1, false)
package mqtt
