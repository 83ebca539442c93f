// Package ux persists the visitor's display preferences between sessions.
//
// Two choices survive a restart: the theme name and the reduced-motion flag.
// Both are absent on a first visit. The theme then falls back to "dark" and
// reduced motion to a system check of the environment. A small visit counter
// lets hosts greet returning visitors differently.
package ux
