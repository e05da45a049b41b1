package invoke

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/transformhub/service-router/internal/catalog"
	"github.com/transformhub/service-router/internal/config"
	"github.com/transformhub/service-router/internal/httpclient"
	"github.com/transformhub/service-router/internal/telemetry"
)

// ErrUnknownServiceType is returned when a descriptor's type has no invoker
var ErrUnknownServiceType = errors.New("unknown service type")

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithHTTPClient sets the client used by the http and workflow invokers
func WithHTTPClient(client httpclient.Client) FactoryOption {
	return func(f *Factory) {
		f.client = client
	}
}

// WithWorkflowConfig sets the workflow engine connection
func WithWorkflowConfig(cfg *config.WorkflowConfig) FactoryOption {
	return func(f *Factory) {
		f.workflowConfig = cfg
	}
}

// WithMetrics records the duration of every invocation
func WithMetrics(metrics *telemetry.InvokeMetrics) FactoryOption {
	return func(f *Factory) {
		f.metrics = metrics
	}
}

// WithInvoker replaces the invoker used for one service type
func WithInvoker(serviceType catalog.ServiceType, inv Invoker) FactoryOption {
	return func(f *Factory) {
		if f.overrides == nil {
			f.overrides = make(map[catalog.ServiceType]Invoker)
		}
		f.overrides[serviceType] = inv
	}
}

// Factory selects the invoker for a service from its type tag
type Factory struct {
	client         httpclient.Client
	workflowConfig *config.WorkflowConfig
	metrics        *telemetry.InvokeMetrics
	overrides      map[catalog.ServiceType]Invoker

	invokers map[catalog.ServiceType]Invoker
}

// NewFactory creates a Factory with one invoker per known service type
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = httpclient.NewDefaultClient(0)
	}

	f.invokers = map[catalog.ServiceType]Invoker{
		catalog.ServiceTypeNoOp:     NoOpInvoker{},
		catalog.ServiceTypeHTTP:     NewHTTPInvoker(f.client),
		catalog.ServiceTypeWorkflow: NewWorkflowInvoker(f.client, f.workflowConfig),
	}
	maps.Copy(f.invokers, f.overrides)
	return f
}

// ForService returns the invoker for svc
func (f *Factory) ForService(svc *catalog.ServiceDescriptor) (Invoker, error) {
	if svc == nil {
		return nil, fmt.Errorf("%w: no service", ErrUnknownServiceType)
	}
	inv, ok := f.invokers[svc.Type]
	if !ok {
		return nil, fmt.Errorf("%w %q for service %s", ErrUnknownServiceType, svc.Type, svc.Name)
	}
	if f.metrics == nil {
		return inv, nil
	}
	return &measuredInvoker{next: inv, serviceType: svc.Type.String(), metrics: f.metrics}, nil
}

// measuredInvoker records invocation durations
type measuredInvoker struct {
	next        Invoker
	serviceType string
	metrics     *telemetry.InvokeMetrics
}

func (m *measuredInvoker) Invoke(ctx context.Context, job *Job) (*JobResult, error) {
	start := time.Now()
	result, err := m.next.Invoke(ctx, job)
	success := err == nil && result != nil && result.Status != StatusFailed
	m.metrics.RecordInvocation(ctx, m.serviceType, time.Since(start), success)
	return result, err
}
