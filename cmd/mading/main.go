package main

import (
	"context"
	"log"

	// Embedded zone database so time_zone works on minimal images.
	_ "time/tzdata"

	"github.com/bhe-24/pustakamateri/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
