package main

import (
	"context"
	"log"

	"github.com/dalemusser/waffle/app"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/bootstrap"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
