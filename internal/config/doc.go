// Package config provides configuration structures and utilities for corpscope.
// It defines how to reach the research backend, how reports are revealed and
// written, and where session state is kept.
package config
