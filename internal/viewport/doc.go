// Package viewport is the application object built on reactive: window size,
// color scheme and theme selection, the last seen version, and the
// server-provided settings.
//
// Themes come from a CUE catalog of stylesheets. Each stylesheet id has the
// form "theme_alt__<scheme>-<theme>", for example "theme_alt__dark-convos".
// ActivateTheme picks the best variant for the requested theme and color
// scheme and records the choice in the colorScheme and theme properties,
// which are persisted in the session cookie.
package viewport
