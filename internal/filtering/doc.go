// Package filtering provides load-time filtering of the service catalog.
//
// An operator can narrow a shared catalog down to the services a particular
// router instance should consider, by service name and by service type. Both
// filters support include and exclude rules with exclude taking precedence.
//
// # Architecture
//
//   - NameFilter: matches service names against glob patterns
//   - TypeFilter: matches the service type discriminator exactly
//   - FilterService: applies both filters to a list of descriptors
//
// # Name Filtering
//
// Name filtering uses github.com/gobwas/glob without separators, so '*'
// also matches across the namespace slash. Examples:
//
//   - "sds/*" matches "sds/gdal-reformatter", "sds/netcdf-variables"
//   - "*-experimental" matches "sds/regrid-experimental"
//   - "harmony/svc?" matches "harmony/svc1" but not "harmony/svc10"
//
// # Filtering Logic
//
// Both filters follow the same precedence rules:
//
//  1. If exclude rules are specified and match -> exclude (precedence)
//  2. If include rules are specified and match -> include
//  3. If include rules are specified but no match -> exclude
//  4. If only exclude rules are specified and no match -> include
//  5. If no rules are specified -> include
//
// A service must pass BOTH filters to be kept. Catalog order is preserved,
// so filtering never changes which of the remaining services wins a match.
//
// # Usage Example
//
//	service := NewDefaultFilterService()
//	filter := &config.FilterConfig{
//		Names: &config.NameFilterConfig{Include: []string{"sds/*"}},
//		Types: &config.TypeFilterConfig{Exclude: []string{"noop"}},
//	}
//
//	kept, err := service.ApplyFilters(ctx, services, filter)
package filtering
