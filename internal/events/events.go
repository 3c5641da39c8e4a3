// Package events publishes maintenance lifecycle events over MQTT so live
// dashboards can refresh without polling. Publishing is best effort: a
// broker outage is logged and otherwise ignored.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/tallervms/workshop-dashboard/internal/models"
)

const (
	TopicCreated   = "workshop/maintenance/created"
	TopicCompleted = "workshop/maintenance/completed"
	TopicDeleted   = "workshop/maintenance/deleted"
)

// Publisher implements store.Notifier on top of an MQTT broker.
type Publisher struct {
	client mqtt.Client
}

// NewPublisher connects to the broker at the given address.
func NewPublisher(broker string) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(fmt.Sprintf("workshop-dashboard-%d", time.Now().UnixNano())).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", token.Error())
	}
	return &Publisher{client: client}, nil
}

// MaintenanceCreated announces a new maintenance record.
func (p *Publisher) MaintenanceCreated(m models.Maintenance) {
	p.publish(TopicCreated, m)
}

// MaintenanceCompleted announces a completed maintenance record.
func (p *Publisher) MaintenanceCompleted(m models.Maintenance) {
	p.publish(TopicCompleted, m)
}

// MaintenanceDeleted announces a deleted maintenance record.
func (p *Publisher) MaintenanceDeleted(id string) {
	p.publish(TopicDeleted, map[string]string{"id": id})
}

func (p *Publisher) publish(topic string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).WithField("topic", topic).Warn("failed to encode event")
		return
	}
	token := p.client.Publish(topic, 0, false, data)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).WithField("topic", topic).Warn("failed to publish event")
		}
	}()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
