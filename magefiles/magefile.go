// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the contingent project using Mage.
//
// Usage:
//
//	mage build             Compile kbctl to bin/
//	mage test:all          Run all tests (unit + integration)
//	mage test:unit         Run only unit tests (exclude integration)
//	mage test:integration  Run only integration tests (builds first)
//	mage test:race         Run unit tests with the race detector
//	mage vet               Run go vet
//	mage lint              Run go vet and golangci-lint
//	mage clean             Remove build artifacts
//	mage install           Install kbctl to GOPATH/bin
//	mage stats             Print Go LOC and documentation word counts
//go:build mage

package main
