// cmd/recollector/main.go
package main

import (
	"repeattools/internal/app"
	"repeattools/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
