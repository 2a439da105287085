// Package pipeline processes one species: the RepeatMasker and TEsorter
// files are parsed concurrently, merged, filtered and reduced to the
// per-species contributions (count vector and divergence rows) that the
// batch layer folds into the run outputs.
package pipeline
