// Package domain defines the MCP tool schemas and handlers for the YNAB
// tools. Each tool has an input struct, a result struct, a Tool definition,
// and a handler factory taking the narrow client interface it needs.
// Handlers render results as markdown and convert every failure into an
// error result; no fault escapes to the protocol layer unhandled.
package domain
