// Package web holds the status page served by the monitoring server.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"
)

// DevModeEnv names the variable that makes the server read the page from
// the source tree, so that it can be edited without rebuilding.
const DevModeEnv = "STREAMCHECK_MONITOR_DEV"

//go:embed dist/*
var staticAssets embed.FS

// GetAssets returns the files of the status page.
func GetAssets() http.FileSystem {
	if devMode() {
		dir := sourceDir()
		fmt.Fprintf(os.Stderr, "Serving the status page from %s\n", dir)

		return http.Dir(dir)
	}

	dist, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(dist)
}

func sourceDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot locate the status page sources")
	}

	return path.Join(path.Dir(file), "dist")
}

func devMode() bool {
	switch strings.ToLower(os.Getenv(DevModeEnv)) {
	case "1", "true":
		return true
	default:
		return false
	}
}
