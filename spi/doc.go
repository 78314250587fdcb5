// Package spi defines the contracts between the foundation registry and the
// environment providers it resolves.
//
// A Manager is the unit of discovery: one is selected per process and it
// hands out one provider per Capability. Plugin packages implement Manager
// and register a factory with the discovery package.
package spi
