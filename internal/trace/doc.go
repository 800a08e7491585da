// Package trace records what a lint run spends its time on.
//
// Spans are opened per run, per phase (discover, analyze, render), per
// file and, at debug level, per rule:
//
//	ocalint check --trace=- --trace-level=file addons/
//
// Tracers travel through the driver on the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file:"+path, trace.ParentSpan(ctx))
//	defer span.End("")
//
// Files that are skipped (unreadable or malformed) leave a Point event
// with a "reason" key instead of a diagnostic.
package trace
