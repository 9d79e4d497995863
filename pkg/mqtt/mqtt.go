// Package mqtt publishes the bot's domain events to an MQTT broker and answers
// request/response queries from other services.
package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "github.com/PancyStudios/StrikeTrackerBot/pkg/errors"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// Event is the envelope of every published domain event
type Event struct {
	ID    string      `json:"id"`
	Topic string      `json:"topic"`
	At    time.Time   `json:"at"`
	Data  interface{} `json:"data"`
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client   mqtt.Client
	clientID string
	prefix   string
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(host, port, username, password, clientID, prefix string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID, prefix)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator creates a new MQTT communicator and connects in the
// background; it keeps retrying until the broker is reachable.
func NewMqttCommunicator(host, port, username, password, clientID, prefix string) *MqttCommunicator {
	mc := &MqttCommunicator{
		clientID: clientID,
		prefix:   strings.Trim(prefix, "/"),
	}

	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Connected to MQTT broker as %s", clientID), "MQTT")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("MQTT connection lost: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)

	token := mc.client.Connect()
	if token.WaitTimeout(publishTimeout) && token.Error() != nil {
		logger.Error(fmt.Sprintf("MQTT connection error: %v", token.Error()), "MQTT")
	}

	return mc
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("MQTT connection closed.", "MQTT")
	} else {
		logger.Debug("MQTT client was not connected, nothing to close.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc != nil && mc.client != nil && mc.client.IsConnected()
}

// Topic prefixes a topic with the configured namespace
func (mc *MqttCommunicator) Topic(topic string) string {
	return joinTopic(mc.prefix, topic)
}

func joinTopic(prefix, topic string) string {
	topic = strings.Trim(topic, "/")
	if prefix == "" {
		return topic
	}
	return prefix + "/" + topic
}

// Publish sends a message to a topic
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 0, false, jsonData)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// newEvent wraps a payload in an Event
func newEvent(topic string, payload interface{}) Event {
	return Event{
		ID:    uuid.New().String(),
		Topic: topic,
		At:    time.Now().UTC(),
		Data:  payload,
	}
}

// PublishEvent publishes a domain event under <prefix>/<topic>. It never
// blocks the caller and does nothing while disconnected.
func (mc *MqttCommunicator) PublishEvent(topic string, payload interface{}) {
	if !mc.IsConnected() {
		logger.Debug("MQTT offline, dropping event "+topic, "MQTT")
		return
	}

	full := mc.Topic(topic)
	event := newEvent(topic, payload)
	go func() {
		if err := mc.Publish(full, event); err != nil {
			logger.Warn(fmt.Sprintf("Failed to publish %s: %v", full, err), "MQTT")
		}
	}()
}

// RequestHandler is a function type for handling MQTT requests
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// handleRequest decodes a request and runs callback on it. It returns the
// response and the suffix of the topic to publish it to.
func handleRequest(name string, raw []byte, callback RequestHandler) (string, MqttResponse, error) {
	var request MqttRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		return "", MqttResponse{}, err
	}

	payloadMap := make(map[string]interface{})
	if pm, ok := request.Payload.(map[string]interface{}); ok {
		payloadMap = pm
	}
	payloadMap["_topic"] = name

	response := MqttResponse{CorrelationID: request.CorrelationID}
	data, err := callback(payloadMap)
	if err != nil {
		response.Error = err.Error()
	} else {
		response.Data = data
	}

	return fmt.Sprintf("response/%s/%s", name, request.CorrelationID), response, nil
}

// On answers requests published to <prefix>/request/<name> on
// <prefix>/response/<name>/<correlationId>
func (mc *MqttCommunicator) On(name string, callback RequestHandler) {
	topic := mc.Topic("request/" + name)

	token := mc.client.Subscribe(topic, 0, func(c mqtt.Client, msg mqtt.Message) {
		defer apperrors.RecoverMiddleware("mqtt request " + name)()
		responseTopic, response, err := handleRequest(name, msg.Payload(), callback)
		if err != nil {
			logger.Error(fmt.Sprintf("Error parsing MQTT request: %v", err), "MQTT")
			return
		}
		if err := mc.Publish(mc.Topic(responseTopic), response); err != nil {
			logger.Warn(fmt.Sprintf("Failed to answer %s: %v", topic, err), "MQTT")
		}
	})

	if token.WaitTimeout(publishTimeout) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error subscribing to topic %s: %v", topic, token.Error()), "MQTT")
	}
}
