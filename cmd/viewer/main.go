// Command viewer opens the scene menu of the oxy viewer.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	flag "github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("[Viewer] %v", err)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("viewer", flag.ContinueOnError)
	configPath := flags.StringP("config", "c", "~/.config/oxy-viewer/config.toml", "configuration file (.toml, .yaml or .yml)")
	start := flags.StringP("scene", "s", "", "open this scene instead of the menu: "+sceneIDs())
	assets := flags.String("assets", "", "asset root directory, overriding the configuration")
	profile := flags.Bool("profile", false, "log frame and memory statistics")
	software := flags.Bool("software", false, "force the software renderer")
	dump := flags.Bool("print-config", false, "print the effective configuration and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if flags.Changed("scene") {
		cfg.Scene = *start
	}
	if flags.Changed("assets") {
		cfg.Assets.Root = *assets
	}
	cfg.Profiler.Enabled = cfg.Profiler.Enabled || *profile
	cfg.Window.SoftwareRenderer = cfg.Window.SoftwareRenderer || *software

	if *dump {
		data, err := config.Encode(cfg, config.FormatTOML)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := engine.NewEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	log.Printf("[Viewer] starting, 1-%d pick a scene, ESC returns to the menu", len(scene.Catalog()))
	return eng.Run(ctx)
}

func sceneIDs() string {
	var ids []string
	for _, e := range scene.Catalog() {
		ids = append(ids, e.ID)
	}
	return strings.Join(ids, ", ")
}
