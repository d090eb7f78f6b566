package repository

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/wsrepo/internal/log"
	"github.com/zjrosen/wsrepo/internal/tracing"
	"github.com/zjrosen/wsrepo/internal/writingsystem"
)

// CreateNew returns an unsaved definition for id. It starts from the first
// template the resolver finds and records that template's path so Save can
// carry it forward; without a template it is simply the parsed id.
func (r *Repository) CreateNew(ctx context.Context, id string) (*writingsystem.Definition, error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanCreateNew,
		trace.WithAttributes(attribute.String(tracing.AttrWritingSystemID, id)))
	defer span.End()

	parsed, err := writingsystem.Parse(id)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	if res, ok := r.resolver.Resolve(ctx, id); ok {
		def := writingsystem.New()
		err := r.mapper.Read(res.Path, def)
		if err == nil {
			def.SetTemplate(res.Path)
			span.SetAttributes(
				attribute.String(tracing.AttrProvider, res.Provider),
				attribute.String(tracing.AttrTemplatePath, res.Path),
			)
			return def, nil
		}
		log.Warn(log.CatTemplate, "Template unreadable, starting empty", "id", id, "path", res.Path, "error", err)
	}

	return parsed, nil
}

// TemplateProviders lists the template sources CreateNew tries, in order.
func (r *Repository) TemplateProviders() []string {
	return r.resolver.Providers()
}
