// Package utils provides loose type conversion helpers.
// They normalize directory payload fields that arrive as strings, numbers or booleans.
package utils
