/*
Package tool defines the functions a model may call during a run. A tool is a
name, a description and a JSON schema describing its arguments. The schema is
reflected from a Go struct so the same type can later decode the arguments the
model produced.

# Usage

	type GetWeather struct {
		City string `json:"city" jsonschema:"description=City to look up"`
	}

	def := tool.Must[GetWeather](tool.Description("Current weather for a city"))

Definitions marshal to the OpenAI function-tool format:

	{"type":"function","function":{"name":"get_weather","description":"...","parameters":{...}}}

The event sequencer forwards definitions to the chunk source and streams the
argument fragments back unchanged. Once a tool call is complete the caller
validates the assembled arguments:

	args, err := tool.Decode[GetWeather](assembled)
*/
package tool
