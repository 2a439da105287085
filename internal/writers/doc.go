// Package writers turns run results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV/JSON/JSONL records,
//     the count-matrix CSV and the per-category divergence files).
//   - Pipeline stays orchestration-only; aggregate stays domain-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
