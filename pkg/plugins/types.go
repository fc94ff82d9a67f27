package plugins

import (
	"github.com/google/uuid"

	"github.com/lufcmattylad/Load-JSON-Object/pkg/types"
)

var PluginList = []PluginDefinition{
	{
		UUID:          GeneratePluginUUID("json_loader"),
		Name:          "json_loader",
		Description:   "Injects a script fragment into the rendered page that loads a JSON object into a global variable path",
		AllowedStages: []types.Stage{types.PostResponse},
		Category:      "page_data",
		Label:         "Load JSON Object",
	},
}

func GeneratePluginUUID(pluginID string) string {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	id := uuid.NewSHA1(namespace, []byte(pluginID))
	return id.String()
}

type PluginDefinition struct {
	UUID          string        `json:"id"`
	Name          string        `json:"name"`
	Label         string        `json:"label"`
	Description   string        `json:"description"`
	AllowedStages []types.Stage `json:"allowed_stages"`
	Category      string        `json:"category"`
}
