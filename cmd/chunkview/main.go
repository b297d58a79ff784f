package main

import (
	"flag"
	"log"
	"runtime"

	"chunkview/internal/config"

	"github.com/faiface/mainthread"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	mainthread.Run(func() { run(*configPath) })
}

// run owns the viewer's lifetime. GL and window calls are funnelled onto the
// main thread with mainthread.Call; everything else runs here or on worker
// goroutines.
func run(configPath string) {
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Apply()

	var a *app
	mainthread.Call(func() { a, err = newApp(cfg) })
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	closer.Bind(a.shutdown)

	a.loop()
	closer.Close()
}
