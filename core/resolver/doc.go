// Package resolver maps incoming URL paths onto files in a static site's
// build output.
//
// It is the security boundary of binserve: every request path is untrusted,
// and every resolved file must lie inside the canonical serve root, even when
// the tree contains symlinks.
//
// # Resolution
//
// Resolve decodes the raw path exactly once, rejects traversal and malformed
// input, strips the configured base path and then looks the path up in
// order:
//
//  1. an existing regular file is served as-is;
//  2. with file-based routing (DirectoryFormat=false), /about is served from about.html;
//  3. a directory is served through its index document, redirecting to the
//     trailing-slash URL first when the request lacked one;
//  4. anything else is a 404, carrying the site's 404 document when present.
//
// # Outcomes
//
// A Target is one of KindFile, KindNotFound or KindInvalid. Errors returned by
// Resolve are infrastructure faults (wrapping ErrFilesystem) and must be
// answered with a server error rather than a 404. Check the error first: the
// Target returned with it is empty (KindNone).
//
// # Usage
//
//	r, err := resolver.New(resolver.Config{Root: "dist", DirectoryFormat: true}, nil)
//	target, err := r.Resolve("/about")
//	if target.IsRedirect() {
//	    // redirect to target.Location
//	}
package resolver
