package main

import (
	"log/slog"
	"net/http"
	"os"

	_ "net/http/pprof" // profiling

	"avmdis/internal/avmdis/cmd"
	"avmdis/internal/avmdis/log"
	"avmdis/internal/config"
)

func main() {
	defer log.RecoverPanic("main", func() {
		slog.Error("Application terminated due to unhandled panic")
	})

	if addr := profileAddr(); addr != "" {
		go serveProfile(addr)
	}

	cmd.Execute()
}

// profileAddr resolves the pprof address from avmdis.toml and
// AVMDIS_PROFILE. A broken config file is reported later by the root
// command, so it only falls back to the environment here.
func profileAddr() string {
	cfg, err := config.Load("")
	if err != nil {
		cfg = config.Default()
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg.Profile
}

func serveProfile(addr string) {
	slog.Info("Serving pprof", "addr", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("Failed to pprof listen", "addr", addr, "error", err)
	}
}
