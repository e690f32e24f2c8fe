// Package config loads lineclass settings.
//
// # Precedence
//
// Settings are layered from lowest to highest priority:
//
//  1. Hardcoded defaults
//  2. Global prefs: <UserConfigDir>/lineclass/prefs.yaml
//  3. The file named by LINECLASS_PREFS
//  4. Workspace file: the nearest .lineclass.yaml above the project directory
//  5. Project file: ./.lineclass.yaml
//  6. The file named by LINECLASS_CONFIG
//  7. Command-line flags
//
// NO_COLOR selects the mono theme unless --theme is given.
//
// Every file is validated against an embedded JSON schema before it is
// merged. Jobs merge by name, ignored_lines replaces the inherited list and
// ignore appends to it.
//
// All failures are returned as *Error and map to exit code 2.
package config
