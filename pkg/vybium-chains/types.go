package vybiumchains

import (
	"github.com/vybium/vybium-chains/internal/vybium-chains/core"
	"github.com/vybium/vybium-chains/internal/vybium-chains/database"
	"github.com/vybium/vybium-chains/internal/vybium-chains/engine"
	"github.com/vybium/vybium-chains/internal/vybium-chains/report"
	"github.com/vybium/vybium-chains/internal/vybium-chains/storage"
	"github.com/vybium/vybium-chains/internal/vybium-chains/utils"
)

// OddClass is one node of a chain: an odd value built from two earlier nodes
type OddClass = core.OddClass

// Chain is a sequence of nodes starting at the unit
type Chain = core.Chain

// AddShift is one chain step in index form
type AddShift = core.AddShift

// Database maps values to their minimal chains
type Database = database.Database

// Entry is the database record of one value
type Entry = database.Entry

// History holds the chains of every completed round
type History = engine.History

// RoundStats summarizes one round
type RoundStats = engine.RoundStats

// Report is the sorted view of a database
type Report = report.Report

// ReportOptions control report rendering
type ReportOptions = report.Options

// RunMeta describes a stored search
type RunMeta = storage.Meta

// Config represents the search configuration
type Config = utils.Config

// DefaultConfig returns the default search configuration:
// 10-bit values, 4 rounds, one worker.
func DefaultConfig() *Config {
	return utils.DefaultConfig()
}

// Store keeps finished searches on disk
type Store = storage.Store

// StoreConfig configures a Store
type StoreConfig = storage.Config
