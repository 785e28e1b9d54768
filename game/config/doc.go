// Package config manages the card themes games are dealt from.
//
// The config package handles:
//   - Loading themes from JSON files
//   - Theme validation (exactly 8 distinct categories)
//   - The built-in default theme
//   - Theme discovery and listing
//
// Theme Format:
//
// Themes are stored as JSON files in the themes directory. Each theme
// defines a name, a description and the 8 card categories printed on the
// deck:
//
//	{
//	  "name": "fruits",
//	  "description": "A fruit basket",
//	  "categories": ["apple", "banana", "cherry", "grape",
//	                 "mango", "orange", "pear", "strawberry"]
//	}
//
// Usage:
//
//	manager := config.NewManager("themes")
//
//	// Load a specific theme
//	theme, err := manager.LoadTheme("fruits")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Default theme ("animals", built in)
//	theme = manager.GetDefault()
//
//	// List available themes
//	themes, err := manager.ListThemes()
//
// The Manager caches themes after first load and is safe for concurrent
// use. A missing theme directory is not an error: the built-in default
// keeps the game playable with no files on disk.
package config
