package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios/msgs"
	"github.com/robotalks/dcsbios.go/pkg/publish/mqtt"
	"github.com/robotalks/dcsbios.go/pkg/sink"
)

var (
	mqttURL = "mqtt://localhost:1883/dcsbios/"
	filter  = "#"
	color   = true
)

func init() {
	if val := os.Getenv("DCSBIOS_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&filter, "topic", filter, "Topic filter, e.g. +/frame.")
	flag.BoolVar(&color, "color", color, "Colored output.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	printer := sink.NewPrinter(os.Stdout, color)

	q.Sub(filter, mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/"+mqtt.MetaTopic) {
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		evMsg, ok := msg.(msgs.EventMessage)
		if !ok {
			log.Printf("%s: %s", topic, msg.(msgs.SerializableMessage).Serializable().String())
			return
		}
		source := topic[:strings.LastIndex(topic, "/")+1]
		log.Printf("%s%s", source, printer.Format(evMsg.Event()))
	}))
	token := q.Connect()
	if token.Wait(); token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
