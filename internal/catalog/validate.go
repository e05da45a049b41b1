package catalog

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/transformhub/service-router/internal/validators"
)

// Validate performs semantic validation of a list of descriptors.
// All problems are reported together.
func Validate(services []*ServiceDescriptor) error {
	if len(services) == 0 {
		return ErrEmptyCatalog
	}

	var errs []error
	names := make(map[string]bool, len(services))
	for i, svc := range services {
		if svc == nil {
			errs = append(errs, fmt.Errorf("service[%d]: descriptor cannot be nil", i))
			continue
		}
		prefix := fmt.Sprintf("service[%d] (%s)", i, svc.Name)

		if _, err := validators.ValidateServiceName(svc.Name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
		if names[svc.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate service name '%s'", prefix, svc.Name))
		}
		names[svc.Name] = true

		if err := validateDescriptor(svc); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
	}

	return errors.Join(errs...)
}

func validateDescriptor(svc *ServiceDescriptor) error {
	if !svc.Type.IsValid() {
		return fmt.Errorf("unknown service type '%s'", svc.Type)
	}
	if svc.Type == ServiceTypeHTTP && svc.Param(ParamURL) == "" {
		return fmt.Errorf("params.%s is required for %s services", ParamURL, ServiceTypeHTTP)
	}

	if len(svc.Collections) == 0 {
		return fmt.Errorf("at least one collection is required")
	}
	for _, id := range svc.Collections {
		if err := validators.ValidateCollectionID(id); err != nil {
			return err
		}
	}

	if svc.MaximumSyncGranules != nil && *svc.MaximumSyncGranules < 0 {
		return fmt.Errorf("maximumSyncGranules must not be negative")
	}
	if svc.MaximumAsyncGranules != nil && *svc.MaximumAsyncGranules < 0 {
		return fmt.Errorf("maximumAsyncGranules must not be negative")
	}
	return nil
}

// CheckGranuleLimits warns about services whose granule ceilings exceed the system-wide maximum.
// It never fails: the system maximum still applies at request time.
// Returns the names of the offending services.
func CheckGranuleLimits(services []*ServiceDescriptor, maxGranules int) []string {
	if maxGranules <= 0 {
		return nil
	}

	var offending []string
	for _, svc := range services {
		for _, limit := range []struct {
			field string
			value *int
		}{
			{"maximumSyncGranules", svc.MaximumSyncGranules},
			{"maximumAsyncGranules", svc.MaximumAsyncGranules},
		} {
			if limit.value != nil && *limit.value > maxGranules {
				slog.Warn("Service granule limit exceeds system maximum",
					"service", svc.Name,
					"field", limit.field,
					"limit", *limit.value,
					"systemMaximum", maxGranules)
				offending = append(offending, svc.Name)
				break
			}
		}
	}
	return offending
}
