package mqtt

import "fmt"

// maxPayloadSize limits payload size to prevent memory exhaustion.
// 1MB is generous for presence and music control payloads (typically <1KB).
const maxPayloadSize = 1 << 20 // 1MB

// Publish sends a message to the specified topic.
//
// Parameters:
//   - topic: Topic to publish to (e.g. "music/control")
//   - payload: Message payload (typically JSON)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: If true, broker retains message for new subscribers
//
// Returns:
//   - error: ErrNotConnected, ErrInvalidQoS, ErrInvalidTopic, or ErrPublishFailed
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	// Validate inputs
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return fmt.Errorf("%w: got %d", ErrInvalidQoS, qos)
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d",
			ErrPublishFailed, len(payload), maxPayloadSize)
	}

	// Check connection state
	if !c.IsConnected() {
		return ErrNotConnected
	}

	// Publish with timeout
	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishJSON publishes a payload that is already JSON-encoded using the
// configured default QoS. Convenience wrapper used by the command router.
func (c *Client) PublishJSON(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), false)
}
