package main

import (
	"context"
	"flag"
	"log"

	"google.golang.org/protobuf/encoding/protojson"

	"github.com/tuppersat/r2d1.go/pkg/env"
	fx "github.com/tuppersat/r2d1.go/pkg/framework"
	"github.com/tuppersat/r2d1.go/pkg/groundstation"
	"github.com/tuppersat/r2d1.go/pkg/relay/mqtt"
)

var topic = "downlink/#"

func init() {
	groundstation.SetupFlags()
	flag.StringVar(&topic, "topic", topic, "Topic pattern to monitor")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(groundstation.NewConfig().MQTTBrokerURL, env.ClientID("r2d1-telemon"))
	if err != nil {
		log.Fatalln(err)
	}
	if _, err = q.Sub(topic, func(topic string, payload []byte) {
		s, err := groundstation.Unmarshal(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		log.Printf("%s: %s", topic, protojson.Format(s))
	}); err != nil {
		log.Fatalln(err)
	}
	if err = q.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	err = fx.NewRunner().HandleSignals().Go(fx.RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})).Wait()
	if err != nil {
		log.Fatalln(err)
	}
}
