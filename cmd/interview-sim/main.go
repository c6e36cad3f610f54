package main

import (
	"log"

	"github.com/provek/interview-sim/internal/builder"
)

func main() {
	app, err := builder.Build()
	if err != nil {
		log.Fatal("interview-sim: failed to build application: ", err)
	}

	if err := app.Run(); err != nil {
		log.Fatal("interview-sim: ", err)
	}
}
