// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package main is the entry point for the triagebot CLI.
package main

import (
	"os"

	"github.com/similigh/triagebot/cmd/triagebot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
