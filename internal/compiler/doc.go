// Package compiler is the authoritative compile service.
//
// React and Vue projects are bundled with esbuild over the in-memory source
// set, with framework imports shimmed to the browser globals loaded by the
// preview document. Svelte, and any framework with a configured override,
// runs an external toolchain in a temporary workspace. Successful results
// are cached by a hash of the request.
//
// The same Service backs the standalone /api/compile endpoint and, through
// Local, the pipeline's out-of-process path when no remote URL is set.
package compiler
