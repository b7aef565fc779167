// Package config provides the configuration of a picgrab run.
// It defines the defaults, validation, configuration file loading and the
// normalization of the target and duplicate-check directories.
package config
