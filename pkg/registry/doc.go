// Package registry enumerates the step kinds the editor can place and their presentation defaults.
package registry
