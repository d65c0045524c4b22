package main

import (
	"flag"
	"log"

	"github.com/robotalks/dcsbios.go/pkg/env"
	fx "github.com/robotalks/dcsbios.go/pkg/framework"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	conf := env.Default()
	if flag.NArg() > 0 {
		conf.Input = flag.Arg(0)
	}
	e := conf.MustNewEnv()
	defer e.Close()
	if err := e.RunWith(fx.NewRunner().HandleSignals()); err != nil {
		log.Fatalln(err)
	}
}
