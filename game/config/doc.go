// Package config provides rules file management for the sliding-tile
// merge game.
//
// The config package implements:
//   - Loading and caching of JSON rules files from a directory
//   - Validation of rules on load and save
//   - Default rules selection (classic.json, then the first valid file,
//     then the built-in classic rules)
//
// Rules files describe the board dimensions, the win target, the merge
// ceiling, and the tile spawn distribution. See engine.Rules for the
// schema and engine.ValidateRules for the constraints.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rules, err := manager.LoadRules("classic")
//	infos, err := manager.ListRules()
package config
