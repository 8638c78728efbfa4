// Package app implements the commands of the exchange-logger CLI:
// rendering recorded exchanges from YAML fixtures and fetching URLs
// through the logging HTTP transport.
package app
