package mqtt

import (
	"fmt"
	"os"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Mavwarf/shortcut-icons/internal/config"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 5 * time.Second
	disconnectMs   = 250
)

// ClientID returns the configured client ID or a per-process default.
func ClientID(c config.MQTT) string {
	if c.ClientID != "" {
		return c.ClientID
	}
	return fmt.Sprintf("shortcut-icons-%d", os.Getpid())
}

// Publish connects to the configured broker, publishes payload to the
// topic, and disconnects. Each call uses a fresh connection.
func Publish(c config.MQTT, payload []byte) error {
	opts := pahomqtt.NewClientOptions().
		AddBroker(c.Broker).
		SetClientID(ClientID(c)).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(false)

	if c.Username != "" {
		opts.SetUsername(os.ExpandEnv(c.Username))
	}
	if c.Password != "" {
		opts.SetPassword(os.ExpandEnv(c.Password))
	}

	client := pahomqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt: connect timeout")
	}
	if tok.Error() != nil {
		return fmt.Errorf("mqtt: connect: %w", tok.Error())
	}
	defer client.Disconnect(disconnectMs)

	pub := client.Publish(c.Topic, c.QoS, c.Retain, payload)
	if !pub.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt: publish timeout")
	}
	if pub.Error() != nil {
		return fmt.Errorf("mqtt: publish: %w", pub.Error())
	}
	return nil
}
