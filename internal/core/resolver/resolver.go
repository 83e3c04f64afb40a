// Package resolver runs the build-time pipeline for one embed invocation:
// URL validation, the blocking fetch, and materialization as text or JSON.
package resolver

import (
	"go/token"
	"net/http"

	"github.com/Hahihula/include-url-macro/internal/core/content"
	"github.com/Hahihula/include-url-macro/internal/core/fetcher"
	"github.com/Hahihula/include-url-macro/internal/core/hasher"
	"github.com/Hahihula/include-url-macro/internal/core/jsonval"
	"github.com/Hahihula/include-url-macro/internal/core/shape"
	"github.com/Hahihula/include-url-macro/internal/core/urlcheck"
)

// Form selects what the fetched content becomes.
type Form int

const (
	// FormText embeds the fetched body as a string constant.
	FormText Form = iota
	// FormJSON parses the body as JSON, optionally converting it into a
	// target shape.
	FormJSON
)

func (f Form) String() string {
	if f == FormJSON {
		return "json"
	}
	return "text"
}

// Invocation is one use of the embedding facility: a directive in a Go
// source file or an entry in the manifest. It is immutable once parsed and
// consumed entirely within one run.
type Invocation struct {
	Name     string // name of the generated constant or variable
	URL      string
	Form     Form
	TypeName string            // target type for typed JSON embeds, "" otherwise
	Shape    *shape.Descriptor // resolved by the scanner when TypeName is set
	Pos      token.Position    // diagnostic anchor
}

// Resolved is the successful outcome of one invocation's pipeline.
type Resolved struct {
	Invocation
	Text  string       // FormText: the materialized content, byte-for-byte
	Value any          // FormJSON without a shape: the generic JSON tree
	Typed *shape.Value // FormJSON with a shape
	Sum   string       // sha256 of the fetched bytes, for the lockfile
}

// Resolve runs the pipeline for inv to completion. Each stage's failure is
// terminal: there are no retries, no fallback values, and no caching of
// fetches. The fetch blocks until the transport completes or fails; client
// may be nil to use http.DefaultClient.
func Resolve(client *http.Client, inv Invocation) (*Resolved, error) {
	if _, err := urlcheck.Validate(inv.URL); err != nil {
		return nil, err
	}

	body, err := fetcher.Fetch(client, inv.URL)
	if err != nil {
		return nil, err
	}

	text, err := content.Materialize(body)
	if err != nil {
		return nil, err
	}

	res := &Resolved{Invocation: inv, Sum: hasher.SumSHA256(body)}

	if inv.Form == FormText {
		res.Text = text
		return res, nil
	}

	value, err := jsonval.Parse(text)
	if err != nil {
		return nil, err
	}

	if inv.Shape == nil {
		res.Value = value
		return res, nil
	}

	typed, err := shape.Convert(value, inv.Shape)
	if err != nil {
		return nil, err
	}
	res.Typed = typed
	return res, nil
}
