// cmd/kr2r-inspect/main.go
package main

import (
	"kr2r/internal/appshell"
	"kr2r/internal/inspectapp"
)

func main() { appshell.Main("kr2r-inspect", inspectapp.RunContext) }
