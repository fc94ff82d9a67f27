package injection

import "fmt"

// Source selects the data-acquisition strategy for one injection.
type Source string

const (
	SourceRawQuery       Source = "raw_query"
	SourceJSONQuery      Source = "json_query"
	SourceProceduralJSON Source = "procedural_json"
	SourceStaticJSON     Source = "static_json"
)

// Payload is an already-serialized JSON document of arbitrary length. It is
// never parsed or re-validated by the emitter and is embedded verbatim.
type Payload string

// Request is the configuration for one injection: a target path and exactly
// one populated source field, selected by Source. A request is built once
// per page render, consumed synchronously and discarded.
type Request struct {
	Source          Source `json:"source" mapstructure:"source"`
	Query           string `json:"query,omitempty" mapstructure:"query"`
	JSONQuery       string `json:"json_query,omitempty" mapstructure:"json_query"`
	ProceduralBlock string `json:"procedural_block,omitempty" mapstructure:"procedural_block"`
	StaticText      string `json:"static_text,omitempty" mapstructure:"static_text"`
	TargetPath      string `json:"target_path" mapstructure:"target_path"`
}

// SourceText returns the source field selected by Source.
func (r *Request) SourceText() string {
	switch r.Source {
	case SourceRawQuery:
		return r.Query
	case SourceJSONQuery:
		return r.JSONQuery
	case SourceProceduralJSON:
		return r.ProceduralBlock
	case SourceStaticJSON:
		return r.StaticText
	}
	return ""
}

// Validate checks the exactly-one-source invariant and the target path.
func (r *Request) Validate() error {
	switch r.Source {
	case SourceRawQuery, SourceJSONQuery, SourceProceduralJSON, SourceStaticJSON:
	default:
		return &ConfigurationError{Message: fmt.Sprintf("unknown source %q", r.Source)}
	}

	populated := 0
	for _, field := range []string{r.Query, r.JSONQuery, r.ProceduralBlock, r.StaticText} {
		if field != "" {
			populated++
		}
	}
	if populated == 0 {
		return &ConfigurationError{Message: fmt.Sprintf("source %q requires its source field to be set", r.Source)}
	}
	if populated > 1 {
		return &ConfigurationError{Message: "exactly one source field may be populated"}
	}
	if r.SourceText() == "" {
		return &ConfigurationError{Message: fmt.Sprintf("populated source field does not match source %q", r.Source)}
	}

	if _, err := ParseTargetPath(r.TargetPath); err != nil {
		return err
	}
	return nil
}
