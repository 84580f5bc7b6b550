// Package writers turns batch results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (JSON/JSONL/TSV/YAML).
//   - Engine stays domain-only; Pipeline stays orchestration-only.
//   - Every format goes through pkg/api (v1) for a stable wire format.
package writers
