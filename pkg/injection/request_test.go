package injection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		req         Request
		expectError bool
	}{
		{
			name: "it should accept a raw query request",
			req:  Request{Source: SourceRawQuery, Query: "select * from emp", TargetPath: "myApp.emp"},
		},
		{
			name: "it should accept a json query request",
			req:  Request{Source: SourceJSONQuery, JSONQuery: "select doc from reports", TargetPath: "myApp.report"},
		},
		{
			name: "it should accept a procedural request",
			req:  Request{Source: SourceProceduralJSON, ProceduralBlock: "func LoadJSON(...)", TargetPath: "myApp.data"},
		},
		{
			name: "it should accept a static request",
			req:  Request{Source: SourceStaticJSON, StaticText: `{"a":1}`, TargetPath: "myApp.static"},
		},
		{
			name:        "it should reject an unknown source",
			req:         Request{Source: "csv", Query: "select 1", TargetPath: "a"},
			expectError: true,
		},
		{
			name:        "it should reject a request with no source field",
			req:         Request{Source: SourceRawQuery, TargetPath: "a"},
			expectError: true,
		},
		{
			name:        "it should reject two populated source fields",
			req:         Request{Source: SourceRawQuery, Query: "select 1", StaticText: "{}", TargetPath: "a"},
			expectError: true,
		},
		{
			name:        "it should reject a field inconsistent with the source",
			req:         Request{Source: SourceRawQuery, StaticText: "{}", TargetPath: "a"},
			expectError: true,
		},
		{
			name:        "it should reject an invalid target path",
			req:         Request{Source: SourceStaticJSON, StaticText: "{}", TargetPath: "a..b"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.expectError {
				var cfgErr *ConfigurationError
				require.Error(t, err)
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRequest_SourceText(t *testing.T) {
	req := Request{Source: SourceJSONQuery, JSONQuery: "select doc from t"}
	assert.Equal(t, "select doc from t", req.SourceText())

	req = Request{Source: "bogus"}
	assert.Empty(t, req.SourceText())
}
