package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"time"

	"github.com/tuppersat/r2d1.go/pkg/mission"
	"github.com/tuppersat/r2d1.go/pkg/radio"
	"github.com/tuppersat/r2d1.go/pkg/sensor"
)

var seed int64 = 1

func init() {
	radio.SetupFlags()
	mission.SetupFlags()
	flag.Int64Var(&seed, "seed", seed, "Seed of the simulated sensors")
}

func main() {
	flag.Parse()

	tx, uart, err := radio.NewConfig().NewTupperSatRadio()
	if err != nil {
		log.Fatalln(err)
	}
	defer uart.Close()

	conf := mission.NewConfig()
	if err = conf.Load(); err != nil {
		log.Fatalln(err)
	}
	epoch := time.Now()
	m, err := conf.NewMission(epoch, tx, sensor.NewFlight(epoch, seed).Lookup)
	if err != nil {
		log.Fatalln(err)
	}
	m.Setup()
	conf.NewLoop(m).RunOrFail()
}
