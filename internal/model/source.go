// Package model defines the data structures shared by the reformat pipeline.
package model

// Path represents a file system path.
type Path string
