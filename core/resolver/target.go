package resolver

// Kind classifies the outcome of a resolution.
type Kind int

const (
	// KindNone is the zero value, carried by the empty Target returned with
	// an error. It is never a resolution outcome.
	KindNone Kind = iota
	// KindInvalid means the request path failed safety validation.
	KindInvalid
	// KindFile means an existing regular file under the serve root was found.
	KindFile
	// KindNotFound means nothing matched; the 404 document should be served.
	KindNotFound
)

// String returns the lower-case name used in logs and JSON payloads.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Target is the result of resolving a request path.
type Target struct {
	// Kind is the outcome variant.
	Kind Kind `json:"kind"`
	// Path is the canonical file to serve for KindFile, or the 404 document
	// for KindNotFound. It is empty when no 404 document exists.
	Path string `json:"path,omitempty"`
	// Redirect is set on KindFile when the request named a directory without
	// a trailing slash. The caller must redirect to Location instead of
	// serving Path.
	Redirect bool `json:"redirect,omitempty"`
	// Location is the escaped, trailing-slash URL path to redirect to.
	Location string `json:"location,omitempty"`
	// Reason describes why a request was rejected.
	Reason string `json:"reason,omitempty"`
}

// File returns a target serving path.
func File(path string, redirect bool) Target {
	return Target{Kind: KindFile, Path: path, Redirect: redirect}
}

// NotFound returns a not-found target. doc is the 404 document, or empty.
func NotFound(doc string) Target {
	return Target{Kind: KindNotFound, Path: doc}
}

// Invalid returns a rejected target.
func Invalid(reason string) Target {
	return Target{Kind: KindInvalid, Reason: reason}
}

// IsFile reports whether the target serves a file with a 200 response.
func (t Target) IsFile() bool { return t.Kind == KindFile && !t.Redirect }

// IsRedirect reports whether the caller must redirect to the trailing-slash form.
func (t Target) IsRedirect() bool { return t.Kind == KindFile && t.Redirect }

// IsNotFound reports whether the target is a 404.
func (t Target) IsNotFound() bool { return t.Kind == KindNotFound }

// IsInvalid reports whether the request was rejected.
func (t Target) IsInvalid() bool { return t.Kind == KindInvalid }
