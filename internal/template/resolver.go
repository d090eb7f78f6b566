// Package template finds a starting definition file for an identifier the
// repository does not hold yet, trying an ordered chain of sources.
package template

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/tracing"
)

// Provider is one source in the chain. TryResolve returns the path of a
// template file for id, or false. Providers never fail loudly; a broken
// source simply reports false.
type Provider interface {
	Name() string
	TryResolve(ctx context.Context, id string) (string, bool)
}

// Result describes a successful resolution.
type Result struct {
	Path     string
	Provider string
}

// Resolver tries providers in order; the first hit wins.
type Resolver struct {
	providers []Provider
	tracer    trace.Tracer
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithTracer sets the tracer used for resolve spans.
func WithTracer(t trace.Tracer) ResolverOption {
	return func(r *Resolver) { r.tracer = t }
}

// NewResolver builds a resolver over providers, tried in the given order.
func NewResolver(providers []Provider, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		providers: providers,
		tracer:    noop.NewTracerProvider().Tracer("template"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Providers returns the provider names in resolution order.
func (r *Resolver) Providers() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// Resolve returns the first template found for id.
func (r *Resolver) Resolve(ctx context.Context, id string) (Result, bool) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanResolve,
		trace.WithAttributes(attribute.String(tracing.AttrWritingSystemID, id)))
	defer span.End()

	for _, p := range r.providers {
		if ctx.Err() != nil {
			break
		}
		path, ok := r.try(ctx, p, id)
		if !ok {
			continue
		}
		span.SetAttributes(
			attribute.Bool(tracing.AttrTemplateFound, true),
			attribute.String(tracing.AttrProvider, p.Name()),
			attribute.String(tracing.AttrTemplatePath, path),
		)
		log.Debug(log.CatTemplate, "Template resolved", "id", id, "provider", p.Name(), "path", path)
		return Result{Path: path, Provider: p.Name()}, true
	}
	span.SetAttributes(attribute.Bool(tracing.AttrTemplateFound, false))
	log.Debug(log.CatTemplate, "No template found", "id", id)
	return Result{}, false
}

func (r *Resolver) try(ctx context.Context, p Provider, id string) (string, bool) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanProvider+p.Name())
	defer span.End()

	path, ok := p.TryResolve(ctx, id)
	span.SetAttributes(attribute.Bool(tracing.AttrTemplateFound, ok))
	return path, ok
}
