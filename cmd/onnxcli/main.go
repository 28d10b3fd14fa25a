// Package main provides the onnxcli command line tool.
package main

import "github.com/jackwish/onnxcli/internal/cli"

func main() {
	cli.Execute()
}
