// cmd/kr2r-classify/main.go
package main

import (
	"kr2r/internal/appshell"
	"kr2r/internal/classifyapp"
)

func main() { appshell.Main("kr2r-classify", classifyapp.RunContext) }
