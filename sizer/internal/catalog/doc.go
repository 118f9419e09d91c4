// Package catalog loads equipment catalogs from YAML and normalizes them
// into the shapes the engine consumes.
//
// Catalog files are loosely typed. Field names are matched case- and
// separator-insensitively against a small alias table (size, size_mm and
// sizeMM all set Pipe.SizeMM), numbers may be given as strings, and ranges
// may be scalars, "min-max" strings, two-element lists or min/max field
// pairs. A malformed range does not fail the load: the field is left zero
// and a warning is recorded in the Snapshot.
//
// Load reads a single file with pipes, pumps and sprinklers keys. LoadDir
// reads pipes.yaml, pumps.yaml and sprinklers.yaml from a directory
// concurrently. Both reject items without an ID and duplicate IDs.
package catalog
