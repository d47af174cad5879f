//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Build mg.Namespace
type Test mg.Namespace

// Builds the plybench and plyinspect binaries into bin/.
func (Build) All() error {
	if err := sh.RunV("go", "build", "-o", "bin/plybench", "./cmd/plybench"); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", "bin/plyinspect", "./cmd/plyinspect")
}

// Runs every package's tests.
func (Test) Unit() error {
	return sh.RunV("go", "test", "./...")
}

// Runs the tests with the race detector.
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}
