// Package types provides shared data structures for the sandbox backend.
//
// This package defines the contracts exchanged between the preview surface,
// the compile pipeline and the compile service.
//
// Core Types:
//   - FileRecord: One named source file with its declared kind
//   - SourceSet: Immutable name → FileRecord mapping handed to a compile
//   - Framework: Closed set of supported framework identifiers
//   - CompileRequest: Framework plus SourceSet
//   - CompileOutcome: Success document or structured failure
//
// Wire Format:
//
//	{"framework": "react", "files": {"index.html": {"name": "index.html", "content": "...", "kind": "html"}}}
//	{"success": true, "html": "<!DOCTYPE html>..."}
//	{"success": false, "error": {"message": "index.html is required", "file": "index.html"}}
//
// Example Usage:
//
//	set, err := types.NewSourceSet(
//	    types.NewFile("index.html", markup),
//	    types.NewFile("script.js", code),
//	)
//	outcome := p.Compile(ctx, types.CompileRequest{Framework: types.FrameworkVanilla, Files: set})
package types
