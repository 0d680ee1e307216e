package main

import (
	"github.com/readease/readease/internal/config"
	"github.com/readease/readease/internal/entrypoint"
)

// Version information - set at build time via ldflags
var Version = "dev"

func main() {
	cfg := config.NewConfig()
	entrypoint.Run(cfg, Version)
}
