package mqtt

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
	"github.com/robotalks/dcsbios.go/pkg/dcsbios/msgs"
)

// MetaTopic is the suffix of the retained meta topic.
const MetaTopic = "meta"

// ShutdownTimeout bounds clearing the meta topic when Run exits.
const ShutdownTimeout = 250 * time.Millisecond

// Meta describes a decoding source, published retained on
// <prefix><source-id>/meta and cleared by the will.
type Meta struct {
	SourceID string `json:"source-id"`
	Protocol string `json:"protocol"`
	Input    string `json:"input,omitempty"`
}

// Publisher publishes decoded events as Typed messages
// on <prefix><source-id>/<topic>.
type Publisher struct {
	Queue *Queue
	Meta  Meta
	// Topics selects the event topics to publish, all if empty.
	Topics map[string]bool

	metaJSON []byte
	dropped  uint64
	online   int32
}

// PublisherOptions creates the client options for a Publisher.
func PublisherOptions(brokerURL string, meta Meta) (*paho.ClientOptions, string, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, "", err
	}
	opts.SetBinaryWill(topicPrefix+meta.SourceID+"/"+MetaTopic, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("dcsbios:" + meta.SourceID)
	}
	return opts, topicPrefix, nil
}

// NewPublisher creates a Publisher.
func NewPublisher(brokerURL string, meta Meta) (*Publisher, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := PublisherOptions(brokerURL, meta)
	if err != nil {
		return nil, err
	}
	p := &Publisher{
		Queue:    NewQueue(opts, topicPrefix),
		Meta:     meta,
		metaJSON: metaJSON,
	}
	p.Queue.OnConnect = func(*Queue) { p.onConnected() }
	p.Queue.OnDisconnect = func(*Queue) { p.onDisconnected() }
	return p, nil
}

// Name implements framework.Named.
func (p *Publisher) Name() string {
	return "mqtt"
}

// Connect connects to the broker and waits until connected.
func (p *Publisher) Connect() error {
	token := p.Queue.Connect()
	if token.Wait(); token.Error() != nil {
		return token.Error()
	}
	atomic.StoreInt32(&p.online, 1)
	return nil
}

// Run implements framework.Runnable.
// It connects in the background if not connected yet.
func (p *Publisher) Run(ctx context.Context) error {
	if !p.Queue.Client.IsConnected() {
		p.Queue.Connect()
	}
	<-ctx.Done()
	// the broker may be unreachable while the client reconnects.
	if !p.Queue.PubWith(p.Meta.SourceID+"/"+MetaTopic, nil, 1, true).WaitTimeout(ShutdownTimeout) {
		glog.Warning("mqtt: timeout clearing meta")
	}
	p.Queue.Close()
	p.onDisconnected()
	if dropped := p.Dropped(); dropped > 0 {
		glog.Warningf("mqtt: %d events dropped while disconnected", dropped)
	}
	return nil
}

// TopicOf gets the relative topic an event is published to.
func (p *Publisher) TopicOf(msg msgs.EventMessage) string {
	return p.Meta.SourceID + "/" + msg.Topic()
}

// HandleEvent implements dcsbios.EventHandler.
// Events are dropped while the client is disconnected or reconnecting.
func (p *Publisher) HandleEvent(ctx context.Context, ev dcsbios.Event) error {
	msg, err := msgs.FromEvent(ev)
	if err != nil {
		return err
	}
	if len(p.Topics) > 0 && !p.Topics[msg.Topic()] {
		return nil
	}
	if !p.Online() {
		atomic.AddUint64(&p.dropped, 1)
		return nil
	}
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	data, err := typed.Encode()
	if err != nil {
		return err
	}
	p.Queue.Pub(p.TopicOf(msg), data)
	return nil
}

// Dropped gets the number of events dropped while disconnected.
func (p *Publisher) Dropped() uint64 {
	return atomic.LoadUint64(&p.dropped)
}

// Online tells if the client is connected to the broker.
func (p *Publisher) Online() bool {
	return atomic.LoadInt32(&p.online) != 0
}

func (p *Publisher) onConnected() {
	atomic.StoreInt32(&p.online, 1)
	p.Queue.PubWith(p.Meta.SourceID+"/"+MetaTopic, p.metaJSON, 1, true)
}

func (p *Publisher) onDisconnected() {
	atomic.StoreInt32(&p.online, 0)
}
