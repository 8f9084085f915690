package models

// Select picks a model for a workload. Tool use needs the larger Llama 3.3
// model; everything else runs on the 8B default.
func Select(needsTools bool) string {
	if needsTools {
		return Llama3_3_70B
	}
	return Default
}

// SupportsTools reports whether the named model accepts tool definitions.
func SupportsTools(name string) bool {
	return Get(name).FunctionCalling
}
