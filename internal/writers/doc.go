// Package writers serializes classification records.
//
// Every writer is a goroutine fed through a channel; the error channel yields
// exactly one value once the input is closed. JSONL goes through pkg/api (v1)
// for a stable wire format.
package writers
