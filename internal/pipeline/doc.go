// Package pipeline turns a framework identifier and a SourceSet into one
// self-contained preview document.
//
// Stages:
//   - Resolve: pick index.html, the stylesheet and the entry script or component
//   - Classify: decide whether the entry needs an authoritative compile
//   - Compile: remote compile for complex entries, in-process transform otherwise
//   - Assemble: splice style and script into index.html at the injection markers
//
// The only retry edge is remote → in-process. Every failure collapses into
// types.CompileOutcome before it leaves Compile.
//
// Example Usage:
//
//	p := pipeline.New(
//	    pipeline.WithRemote(client),
//	    pipeline.WithLogger(log.Logger),
//	)
//	outcome := p.Compile(ctx, req)
package pipeline
