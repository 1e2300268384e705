//go:build mage

// Package main provides development automation.
package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/samber/lo"
)

// Dev groups commands for local development.
type Dev mg.Namespace

// Lint runs the linters.
func (Dev) Lint() error {
	return sh.Run("golangci-lint", "run")
}

// Test runs the full test suite with the race detector.
func (Dev) Test() error {
	return sh.Run("go", "test", "-race", "./...")
}

// Release tags a new version and pushes it.
func (Dev) Release() error {
	version := strings.TrimSpace(string(lo.Must(os.ReadFile("version.txt"))))

	if !regexp.MustCompile(`^v([0-9]+).([0-9]+).([0-9]+)$`).MatchString(version) {
		return fmt.Errorf("invalid version format: %s", version)
	}

	if err := sh.Run("git", "tag", version); err != nil {
		return fmt.Errorf("failed to tag version: %w", err)
	}

	if err := sh.Run("git", "push", "origin", version); err != nil {
		return fmt.Errorf("failed to push version tag: %w", err)
	}

	return nil
}
