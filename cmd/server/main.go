package main

import (
	"github.com/swadseva/ordering/internal/app"
	"github.com/swadseva/ordering/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
