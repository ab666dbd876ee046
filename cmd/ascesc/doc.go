// Package main hosts the ascesc CLI entrypoint and command graph.
//
// The Cobra-based command tree loads the configuration lazily, runs
// consolidations through the pipeline package, and renders the stored
// canonical set, run history and anomalies as tables or JSON.
package main
