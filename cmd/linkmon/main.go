package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/nxtlink/pkg/cli/sh"
	"github.com/robotalks/nxtlink/pkg/telemetry"
	"github.com/robotalks/nxtlink/pkg/telemetry/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/nxtlink/"
	asJSON  bool
)

func init() {
	if val := os.Getenv("NXTLINK_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.BoolVar(&asJSON, "json", asJSON, "Print messages in JSON.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if tok := q.Connect(); tok.Wait() && tok.Error() != nil {
		log.Fatalln(tok.Error())
	}

	mqtt.Subscribe(q, func(topic string, env *telemetry.Envelope) {
		if env.Direction == telemetry.DirectionState {
			log.Printf("%s: %s", topic, env.State)
			return
		}
		msg, err := env.Message()
		if err != nil {
			log.Printf("%s: decode error: %v", topic, err)
			return
		}
		log.Printf("%s: %s", topic, sh.FormatMessage(msg, asJSON))
	})
	<-(chan struct{})(nil)
}
