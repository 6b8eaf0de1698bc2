// Package config defines the root configuration for Sentinel Ceres and its
// loading pipeline: YAML file, defaults, CERES_* environment overrides, then
// validation. All sections carry defaults so an empty file is a valid
// configuration.
package config
