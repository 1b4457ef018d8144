// Package orchestrator wires the console together: it loads the backend
// description, parses it into resources and builds one controller per
// resource with a shared client, logger and notifier.
package orchestrator
