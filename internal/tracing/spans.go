package tracing

import (
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrWritingSystemID = "ws.id"
	AttrProvider        = "template.provider"
	AttrTemplatePath    = "template.path"
	AttrTemplateFound   = "template.found"
	AttrFetchURL        = "fetch.url"
	AttrFetchStatus     = "fetch.status"
	AttrFetchCached     = "fetch.cached_miss"
	AttrErrorMessage    = "error.message"
)

// Span names.
const (
	SpanCreateNew = "repo.create_new"
	SpanResolve   = "template.resolve"
	SpanProvider  = "template.provider."
	SpanFetch     = "fetch.ldml"
)

// RecordError marks span as failed with err. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
