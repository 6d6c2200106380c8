//go:build tools
// +build tools

// Package tools records development-time tooling. Everything here is
// installed with `go install` and intentionally kept out of go.mod.
package tools

// Air - live reload during local development
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air
