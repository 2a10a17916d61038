// Package utils provides common utility functions for the PPE Manager.
// It includes helper functions for lenient type conversion shared by the
// HTTP handlers and CLI commands.
package utils
