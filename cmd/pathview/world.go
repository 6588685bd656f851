package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/milk9111/stagecam/driver"
	"github.com/milk9111/stagecam/scene"
)

// world owns the live objects the operator can resolve: every route script
// in the routes directory becomes an object named after its file.
type world struct {
	routes map[scene.ObjectID]*driver.Route
}

func loadWorld(dir string, log zerolog.Logger) *world {
	w := &world{routes: map[scene.ObjectID]*driver.Route{}}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("no routes directory")
		return w
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tengo") {
			continue
		}
		route, err := driver.LoadFile(filepath.Join(dir, entry.Name()), log)
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping route")
			continue
		}
		w.routes[scene.ObjectID(route.Name())] = route
		log.Info().Str("route", route.Name()).Msg("loaded route")
	}
	return w
}

func (w *world) Object(id scene.ObjectID) (scene.Object, bool) {
	route, ok := w.routes[id]
	if !ok {
		return nil, false
	}
	return route, true
}

func (w *world) Update(dt float64) {
	for _, route := range w.routes {
		route.Update(dt)
	}
}

// attachedRoute returns the route an operator is attached to, if any.
func (w *world) attachedRoute(id scene.ObjectID) (*driver.Route, bool) {
	route, ok := w.routes[id]
	return route, ok
}
