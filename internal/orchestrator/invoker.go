package orchestrator

import (
	"context"

	"nordkyc/internal/customer"
	"nordkyc/internal/domain"
	"nordkyc/internal/extract"
	"nordkyc/internal/registry"
)

// Invoker executes pipeline stages. The local adapter calls the services
// in-process; a remote adapter would carry each call over the network, so
// every method may fail with a transport error distinct from the stage's own
// result status.
type Invoker interface {
	Extract(ctx context.Context, req extract.Request) (extract.Result, error)
	Verify(ctx context.Context, req registry.VerifyRequest) (domain.VerificationResult, error)
	Register(ctx context.Context, req customer.RegisterRequest) (domain.RegistrationResult, error)
}

// LocalInvoker runs the stages in-process.
type LocalInvoker struct {
	Extractor *extract.Service
	Verifier  *registry.Service
	Registrar *customer.Registrar
}

func (i *LocalInvoker) Extract(ctx context.Context, req extract.Request) (extract.Result, error) {
	return i.Extractor.Extract(ctx, req), nil
}

func (i *LocalInvoker) Verify(ctx context.Context, req registry.VerifyRequest) (domain.VerificationResult, error) {
	return i.Verifier.Verify(ctx, req), nil
}

func (i *LocalInvoker) Register(ctx context.Context, req customer.RegisterRequest) (domain.RegistrationResult, error) {
	return i.Registrar.Register(ctx, req), nil
}
