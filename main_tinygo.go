//go:build tinygo

package main

import (
	"displaywriter/app"
	"displaywriter/hal"
)

func main() {
	app.Run(hal.New(), app.Config{
		Profile: firmwareProfile(),
		Mode:    reportMode,
	})
}
