package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/yrro/temper"
)

var (
	vendor  = flag.Uint("vendor", uint(temper.IDVendorTemper), "vendor ID of the thermometer")
	product = flag.Uint("product", uint(temper.IDProductTemper), "product ID of the thermometer")
	outer   = flag.Bool("outer", false, "read the outer probe instead of the inner sensor")
	verbose = flag.Bool("v", false, "log debug details to stderr")
)

func main() {
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	s := temper.Session{
		Vendor:  uint16(*vendor),
		Product: uint16(*product),
		Log:     log,
	}

	read := s.ReadTemperature
	if *outer {
		read = s.ReadOuterTemperature
	}

	celsius, err := read()
	if err != nil {
		fmt.Fprintln(os.Stderr, "temper:", err)
		os.Exit(1)
	}
	fmt.Println(celsius)
}
