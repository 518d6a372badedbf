package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/tuppersat/r2d1.go/pkg/env"
	fx "github.com/tuppersat/r2d1.go/pkg/framework"
	"github.com/tuppersat/r2d1.go/pkg/groundstation"
	"github.com/tuppersat/r2d1.go/pkg/radio"
	"github.com/tuppersat/r2d1.go/pkg/relay/mqtt"
)

func init() {
	radio.SetupFlags()
	groundstation.SetupFlags()
}

func main() {
	flag.Parse()

	uart, err := radio.NewConfig().Open()
	if err != nil {
		log.Fatalln(err)
	}
	q, err := mqtt.NewQueueFromURL(groundstation.NewConfig().MQTTBrokerURL, env.ClientID("r2d1-gs"))
	if err != nil {
		log.Fatalln(err)
	}
	if err = q.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	st := groundstation.NewStation(radio.NewReceiver(uart), q)
	err = fx.NewRunner().HandleSignals().Go(fx.NamedRun("groundstation", fx.RunFunc(func(ctx context.Context) error {
		return fx.RunWithContextCloser(ctx, uart, func() error {
			return st.Run(ctx)
		})
	}))).Wait()
	stats, failed := st.Stats()
	log.Printf("relayed %v, failed %d", stats, failed)
	if err != nil {
		log.Fatalln(err)
	}
}
