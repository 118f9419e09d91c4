// Package config loads and watches the sizer configuration file (config.yaml).
//
// Top-level types:
//   - Config{Catalog, Materials, Checks, Report, Log, Watch}: full tree parsed from YAML
//   - CatalogConfig: path (single file) or dir (pipes.yaml, pumps.yaml, sprinklers.yaml)
//   - MaterialsConfig: per-role allow-lists for Recommended pipes; ByRole()
//   - CheckRule: name, condition ("main_velocity > 2.5"), severity
//   - ReportConfig: format (text|json), metrics_path, candidates
//   - LogConfig, WatchConfig: log level and watch debounce
//
// Load(path) reads the YAML file, applies defaults (catalog.yaml, text
// report, info logging, 250ms debounce, role material lists), validates
// enums, then resolves relative paths against the config file directory.
//
// Watch(ctx, paths, debounce, onChange) uses fsnotify to detect changes to
// the project, catalog and config files and calls onChange once per burst.
// It handles the rename→create pattern used by atomic-save editors (vim,
// VS Code) by re-adding the watches after every change.
package config
