// pathview is a top-down viewer for tuning camera routes: it loads a scene,
// runs an operator against it and draws the path, obstacles and camera pose
// while you drive the operator from the keyboard.
package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

func main() {
	viper.SetDefault("scene", "scene.yaml")
	viper.SetDefault("operator", "operator.yaml")
	viper.SetDefault("routes", "routes")
	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)
	viper.SetDefault("debug", false)

	viper.SetConfigName("pathview")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("pathview")
	viper.AutomaticEnv()
	// The config file is optional; defaults cover a bare checkout.
	_ = viper.ReadInConfig()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if viper.GetBool("debug") {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	app, err := NewApp(log)
	if err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(viper.GetInt("window.width"), viper.GetInt("window.height"))
	ebiten.SetWindowTitle("pathview")

	if err := ebiten.RunGame(app); err != nil {
		log.Fatal().Err(err).Msg("viewer exited")
	}
}
